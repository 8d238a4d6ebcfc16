package session

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
)

func newContext() context.Context {
	return logger.WithLogger(context.Background(), logger.New(logger.DefaultConfig))
}

func newSession(t *testing.T, in string, numOfNodes uint64) (*Session, *bytes.Buffer) {
	out := &bytes.Buffer{}
	s, deallocFunc, err := New(Config{
		In:         strings.NewReader(in),
		Out:        out,
		NumOfNodes: numOfNodes,
		Verify:     true,
	})
	require.NoError(t, err)
	t.Cleanup(deallocFunc)
	return s, out
}

func TestReadCount(t *testing.T) {
	requireT := require.New(t)

	requireT.Equal(5, ReadCount("5"))
	requireT.Equal(1, ReadCount("1"))
	requireT.Equal(DefaultCount, ReadCount("0"))
	requireT.Equal(DefaultCount, ReadCount("-4"))
	requireT.Equal(DefaultCount, ReadCount("abc"))
	requireT.Equal(DefaultCount, ReadCount(""))
}

func TestRunCycle(t *testing.T) {
	requireT := require.New(t)

	s, out := newSession(t, "", 64)
	requireT.NoError(s.RunCycle(newContext(), 5))
	requireT.Equal("1~>2~>3~>4~>5\n1~>5~>2~>4~>3\n", out.String())

	out.Reset()
	requireT.NoError(s.RunCycle(newContext(), 6))
	requireT.Equal("1~>2~>3~>4~>5~>6\n1~>6~>2~>5~>3~>4\n", out.String())

	out.Reset()
	requireT.NoError(s.RunCycle(newContext(), 1))
	requireT.Equal("1\n1\n", out.String())
}

func TestRunCycleReusesArena(t *testing.T) {
	requireT := require.New(t)

	// Every cycle uses all the free nodes, so it succeeds only if previous cycle returned them.
	s, out := newSession(t, "", 8)
	for range 10 {
		out.Reset()
		requireT.NoError(s.RunCycle(newContext(), 7))
		requireT.Equal("1~>2~>3~>4~>5~>6~>7\n1~>7~>2~>6~>3~>5~>4\n", out.String())
	}
}

func TestRunCycleOutOfSpace(t *testing.T) {
	requireT := require.New(t)

	core, logs := observer.New(zap.ErrorLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	s, out := newSession(t, "", 5)
	requireT.NoError(s.RunCycle(ctx, 6))

	// Only 4 nodes fit, the rest is reported and skipped.
	requireT.Equal("1~>2~>3~>4\n1~>4~>2~>3\n", out.String())
	requireT.Equal(2, logs.FilterMessage("Node allocation failed").Len())
}

func TestRunCycleDebugLog(t *testing.T) {
	requireT := require.New(t)

	s, _ := newSession(t, "", 16)

	core, logs := observer.New(zap.InfoLevel)
	requireT.NoError(s.RunCycle(logger.WithLogger(context.Background(), zap.New(core)), 5))
	requireT.Zero(logs.Len())

	core, logs = observer.New(zap.DebugLevel)
	requireT.NoError(s.RunCycle(logger.WithLogger(context.Background(), zap.New(core)), 5))

	entries := logs.FilterMessage("Cycle finished").All()
	requireT.Len(entries, 1)
	fields := entries[0].ContextMap()
	requireT.Equal(uint64(5), fields["nodes"])
	requireT.Contains(fields, "fingerprint")
}

func TestNewTooLargeArena(t *testing.T) {
	requireT := require.New(t)

	_, _, err := New(Config{
		In:         strings.NewReader(""),
		Out:        &bytes.Buffer{},
		NumOfNodes: 1 << 60,
	})
	requireT.Error(err)
}

func TestRun(t *testing.T) {
	requireT := require.New(t)

	s, out := newSession(t, "4\nabc -2\n0 2\n", 64)
	requireT.NoError(s.Run(newContext()))

	requireT.Equal(strings.Join([]string{
		Prompt + "1~>2~>3~>4",
		"1~>4~>2~>3",
		Prompt + "1~>2~>3",
		"1~>3~>2",
		Prompt + "1~>2~>3",
		"1~>3~>2",
		Prompt + "1~>2~>3",
		"1~>3~>2",
		Prompt + "1~>2",
		"1~>2",
		Prompt,
	}, "\n"), out.String())
}

func TestRunCanceled(t *testing.T) {
	requireT := require.New(t)

	s, out := newSession(t, "4\n", 64)

	ctx, cancel := context.WithCancel(newContext())
	cancel()

	err := s.Run(ctx)
	requireT.True(errors.Is(err, context.Canceled))
	requireT.Empty(out.String())
}

func TestConcurrentSessions(t *testing.T) {
	requireT := require.New(t)

	const numOfSessions = 8

	outs := make([]*bytes.Buffer, 0, numOfSessions)
	sessions := make([]*Session, 0, numOfSessions)
	for i := range numOfSessions {
		s, out := newSession(t, fmt.Sprintf("%d\n", i+2), 32)
		sessions = append(sessions, s)
		outs = append(outs, out)
	}

	err := parallel.Run(newContext(), func(ctx context.Context, spawn parallel.SpawnFn) error {
		for i, s := range sessions {
			spawn(fmt.Sprintf("session-%02d", i), parallel.Continue, s.Run)
		}
		return nil
	})
	requireT.NoError(err)

	requireT.Equal(Prompt+"1~>2\n1~>2\n"+Prompt, outs[0].String())
	requireT.Equal(Prompt+"1~>2~>3~>4~>5\n1~>5~>2~>4~>3\n"+Prompt, outs[3].String())
	requireT.Equal(Prompt+"1~>2~>3~>4~>5~>6~>7~>8~>9\n1~>9~>2~>8~>3~>7~>4~>6~>5\n"+Prompt, outs[7].String())
}
