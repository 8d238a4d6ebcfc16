package session

import (
	"bufio"
	"context"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/logger"
	"github.com/outofforest/spiral/alloc"
	"github.com/outofforest/spiral/list"
	"github.com/outofforest/spiral/spiral"
	"github.com/outofforest/spiral/types"
	"github.com/outofforest/spiral/verify"
)

const (
	// DefaultCount is used when requested number of nodes is invalid.
	DefaultCount = 3

	// Prompt is printed before reading the number of nodes.
	Prompt = "num nodes? : "
)

// Config stores session configuration.
type Config struct {
	In           io.Reader
	Out          io.Writer
	NumOfNodes   uint64
	UseHugePages bool
	Verify       bool
}

// New creates new session.
func New(config Config) (*Session, func(), error) {
	state, stateDeallocFunc, err := alloc.NewState(alloc.Config{
		NumOfNodes:   config.NumOfNodes,
		UseHugePages: config.UseHugePages,
	})
	if err != nil {
		return nil, nil, err
	}

	return &Session{
		config: config,
		state:  state,
		list: list.New(list.Config{
			Root:        &types.ListRoot{},
			State:       state,
			Allocator:   state.NewAllocator(),
			Deallocator: state.NewDeallocator(),
		}),
	}, stateDeallocFunc, nil
}

// Session builds, spiralifies, prints and destroys lists.
type Session struct {
	config Config
	state  *alloc.State
	list   *list.List
}

// Run reads counts from the input and runs one cycle for each of them until input ends.
func (s *Session) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.config.In)
	scanner.Split(bufio.ScanWords)

	for {
		if err := ctx.Err(); err != nil {
			return errors.WithStack(err)
		}

		if _, err := io.WriteString(s.config.Out, Prompt); err != nil {
			return errors.WithStack(err)
		}
		if !scanner.Scan() {
			return errors.WithStack(scanner.Err())
		}

		if err := s.RunCycle(ctx, ReadCount(scanner.Text())); err != nil {
			return err
		}
	}
}

// RunCycle builds list of count nodes, prints it, spiralifies, prints again and destroys it.
func (s *Session) RunCycle(ctx context.Context, count int) error {
	log := logger.Get(ctx)

	defer func() {
		s.list.Destroy()
		s.state.Commit()
	}()

	for i := range count {
		if err := s.list.Append(int64(i + 1)); err != nil {
			log.Error("Node allocation failed", zap.Int("value", i+1), zap.Error(err))
		}
	}

	if err := s.check(); err != nil {
		return err
	}
	if err := s.list.Print(s.config.Out); err != nil {
		return err
	}

	spiral.Spiralify(s.list.Root(), s.state)

	if err := s.check(); err != nil {
		return err
	}
	if err := s.list.Print(s.config.Out); err != nil {
		return err
	}

	if ce := log.Check(zap.DebugLevel, "Cycle finished"); ce != nil {
		ce.Write(
			zap.Int("requested", count),
			zap.Uint64("nodes", s.list.Len()),
			zap.Uint64("fingerprint", verify.Fingerprint(*s.list.Root(), s.state)))
	}

	return nil
}

func (s *Session) check() error {
	if !s.config.Verify {
		return nil
	}
	return verify.Check(*s.list.Root(), s.state)
}

// ReadCount parses requested number of nodes. Anything which is not a positive number gives DefaultCount.
func ReadCount(token string) int {
	count, err := strconv.Atoi(token)
	if err != nil || count < 1 {
		return DefaultCount
	}
	return count
}
