package main

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/oqtopus-team/grover-lab/core"
	"github.com/oqtopus-team/grover-lab/grover"
	"github.com/oqtopus-team/grover-lab/surface"
	"github.com/oqtopus-team/grover-lab/turtle"
	"go.uber.org/zap"
)

type surfaceCmd struct {
	Grid int `long:"grid" description:"samples along each axis" default:"50"`
}

func newSurfaceCmd() *surfaceCmd {
	return &surfaceCmd{}
}

func (c *surfaceCmd) Execute(args []string) error {
	s, err := openSession(lab.Conf)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.sc.Invoke(func(sim core.Simulator) error {
		ctx := context.Background()
		smooth, err := surface.Interference(ctx, sim, c.Grid)
		if err != nil {
			return err
		}
		flat, err := surface.Grover(ctx, sim, c.Grid)
		if err != nil {
			return err
		}
		for _, sf := range []*surface.Surface{smooth, flat} {
			lo, hi := bounds(sf)
			fmt.Fprintf(s.out, "%s: P(|0>) from %.3f to %.3f\n", sf.Title, lo, hi)
		}
		if s.conf.DisablePlot {
			zap.L().Info("plotting is disabled. skip the surface image")
			return nil
		}
		path, err := surface.Save(s.conf.OutputDir, s.start, smooth, flat)
		if err != nil {
			zap.L().Warn(fmt.Sprintf("failed to save the surfaces. Reason:%s", err))
			return nil
		}
		fmt.Fprintf(s.out, "Surfaces saved as %s\n", path)
		return nil
	})
}

func bounds(sf *surface.Surface) (lo, hi float64) {
	lo, hi = 1, 0
	for _, row := range sf.P0 {
		for _, p := range row {
			lo = min(lo, p)
			hi = max(hi, p)
		}
	}
	return lo, hi
}

type turtleCmd struct {
	Walk  string `long:"walk" description:"walk to draw" default:"all" choice:"all" choice:"quantum-walk" choice:"random-turn" choice:"entangled" choice:"phase-walk"`
	Steps int    `long:"steps" description:"steps per walk, 0 uses the walk's default" default:"0"`
}

func newTurtleCmd() *turtleCmd {
	return &turtleCmd{}
}

func (c *turtleCmd) Execute(args []string) error {
	s, err := openSession(lab.Conf)
	if err != nil {
		return err
	}
	defer s.Close()

	names := []string{c.Walk}
	if c.Walk == "all" {
		names = turtle.Names()
	}
	seed := s.conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	return s.sc.Invoke(func(sim core.Simulator) error {
		for _, name := range names {
			canvas, err := turtle.Run(context.Background(), sim, name, rng, c.Steps)
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "%s: %d steps, %d segments\n", name, canvas.Frames(), len(canvas.Segments))
			if s.conf.DisablePlot {
				continue
			}
			paths, err := canvas.Save(s.conf.OutputDir, strings.ReplaceAll(name, "-", "_"), s.start)
			if err != nil {
				zap.L().Warn(fmt.Sprintf("failed to save the %s drawing. Reason:%s", name, err))
			}
			for _, p := range paths {
				fmt.Fprintf(s.out, "Drawing saved as %s\n", p)
			}
		}
		return nil
	})
}

type qasmCmd struct {
	Problem    string `long:"problem" short:"p" description:"problem to build" default:"non-overlapping"`
	Iterations int    `long:"iterations" short:"k" description:"Grover iterations" default:"1"`
	Optimal    bool   `long:"optimal" description:"use the optimal iteration count"`
}

func newQASMCmd() *qasmCmd {
	return &qasmCmd{}
}

func (c *qasmCmd) Execute(args []string) error {
	logger, err := setupLogger(lab.Conf)
	if err != nil {
		return err
	}
	defer logger.Sync()

	p, err := grover.LookupProblem(c.Problem)
	if err != nil {
		zap.L().Error(err.Error())
		return err
	}
	k := c.Iterations
	if c.Optimal {
		if k, err = grover.OptimalIterationsFor(p.Predicate); err != nil {
			return err
		}
	}
	circ, _, err := grover.BuildCircuit(p.Predicate, k)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to build a circuit for %s. Reason:%s", p.Name, err))
		return err
	}
	fmt.Println(circ.ToQASM())
	return nil
}
