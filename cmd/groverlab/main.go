package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/massn/envordot"

	"github.com/oqtopus-team/grover-lab/core"
	"github.com/oqtopus-team/grover-lab/db"
	"github.com/oqtopus-team/grover-lab/grover"
	"github.com/oqtopus-team/grover-lab/log"
	"github.com/oqtopus-team/grover-lab/qpu"
	"github.com/oqtopus-team/grover-lab/reporter"

	"go.uber.org/dig"
	"go.uber.org/zap"
)

var versionByBuildFlag string
var parser *flags.Parser
var lab *Lab

func init() {
	if err := envordot.Load(false, ".env"); err != nil {
		fmt.Printf("Not found \".env\" file. Use only environment variables. Reason:%s\n", err.Error())
	} else {
		fmt.Println("Found \".env\" file. Environment variables are preferred, " +
			"but non-conflicting variables are those in the \".env\" file.")
	}
	lab = &Lab{}
	setParser(lab)
}

type Lab struct {
	DIContainerParameters *DIContainerParameters
	Conf                  *core.Conf
}

type DIContainerParameters struct {
	Report   string `long:"report" description:"extra report next to the text one" default:"none" choice:"none" choice:"json" env:"GROVER_LAB_REPORT"`
	JSONQASM bool   `long:"json-qasm" description:"keep the circuit text in the JSON report" env:"GROVER_LAB_JSON_QASM"`
	Store    string `long:"store" description:"where finished runs are kept" default:"memory" choice:"memory" choice:"file" env:"GROVER_LAB_STORE"`
}

func setParser(lab *Lab) {
	parser = flags.NewParser(lab, flags.Default)
	parser.ShortDescription = "grover lab"
	parser.LongDescription = "Grover search over bit-pattern predicates on a state vector simulator."
	parser.AddCommand("search", "run a Grover search", "sweep a problem over iteration counts", newSearchCmd())
	parser.AddCommand("truss", "search the best truss design", "rank the truss designs and search the best one", newTrussCmd())
	parser.AddCommand("surface", "render interference surfaces", "compute P(|0>) over phase and amplitude grids", newSurfaceCmd())
	parser.AddCommand("turtle", "draw quantum turtle walks", "draw walks steered by qubit measurements", newTurtleCmd())
	parser.AddCommand("qasm", "print the circuit of a problem", "print the OpenQASM 3 text of a Grover circuit", newQASMCmd())
}

func parse() {
	if _, err := parser.Parse(); err != nil {
		code := 1
		if fe, ok := err.(*flags.Error); ok {
			if fe.Type == flags.ErrHelp {
				code = 0
			}
		}
		if code == 1 {
			fmt.Printf("failed to parse flags, because %s\n", err)
		}
		os.Exit(code)
	}
}

func (l *Lab) provideDIContainer(out io.Writer, text *reporter.TextReporter, start time.Time) (c *dig.Container, err error) {
	c = dig.New()
	err = c.Provide(func() core.Simulator {
		// seeded from the configuration in Setup
		return qpu.NewStateVectorSimulator(0)
	})
	if err != nil {
		return &dig.Container{}, err
	}
	err = c.Provide(func() (core.Reporter, error) {
		reporters := []core.Reporter{
			text,
			reporter.NewPlotReporter(start),
		}
		switch l.DIContainerParameters.Report {
		case "none":
		case "json":
			j := reporter.NewJSONReporter(out)
			j.WithQASM = l.DIContainerParameters.JSONQASM
			reporters = append(reporters, j)
		default:
			return nil, fmt.Errorf("%s is an unknown Report", l.DIContainerParameters.Report)
		}
		return reporter.NewMulti(reporters...), nil
	})
	if err != nil {
		return &dig.Container{}, err
	}
	err = c.Provide(func() (core.RunStore, error) {
		switch l.DIContainerParameters.Store {
		case "memory":
			return &core.MemoryStore{}, nil
		case "file":
			return db.NewFileStore(start), nil
		default:
			return nil, fmt.Errorf("%s is an unknown Store", l.DIContainerParameters.Store)
		}
	})
	if err != nil {
		return &dig.Container{}, err
	}
	return
}

func main() {
	parse()
}

// session is what every subcommand sets up before it starts working.
type session struct {
	start  time.Time
	conf   *core.Conf
	logger *zap.Logger
	runLog *log.RunLog
	out    io.Writer
	text   *reporter.TextReporter
	sc     *core.SystemComponents
}

func openSession(conf *core.Conf) (*session, error) {
	s := &session{start: time.Now(), conf: conf, out: os.Stdout}
	logger, err := setupLogger(conf)
	if err != nil {
		return nil, err
	}
	s.logger = logger
	core.SetVersion(conf, versionByBuildFlag)
	log.LogVersion()

	if err := loadSetting(conf); err != nil {
		s.Close()
		return nil, err
	}

	if !conf.DisableRunLog {
		rl, err := log.OpenRunLog(conf.OutputDir, s.start, os.Stdout)
		if err != nil {
			zap.L().Error(fmt.Sprintf("Failed to open the run log. Reason:%s", err))
			s.Close()
			return nil, err
		}
		zap.L().Info(fmt.Sprintf("Writing results to %s", rl.Path()))
		s.runLog = rl
		s.out = rl.Writer()
	}

	zap.L().Debug(fmt.Sprintf("Providing DI Container with parameters %+v", lab.DIContainerParameters))
	s.text = reporter.NewTextReporter(s.out)
	container, err := lab.provideDIContainer(s.out, s.text, s.start)
	if err != nil {
		zap.L().Error(fmt.Sprintf("Failed to setting up DI-Container. Reason:%s", err.Error()))
		s.Close()
		return nil, err
	}
	zap.L().Debug("Setting up System Components")
	sc := core.NewSystemComponents(container)
	if err := sc.Setup(conf); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to setting up Container. Reason:%s", err.Error()))
		s.Close()
		return nil, err
	}
	s.sc = sc
	return s, nil
}

// Close tears the components down first, so reporters still reach the run
// log while they flush.
func (s *session) Close() {
	if s.sc != nil {
		s.sc.TearDown()
	}
	if s.runLog != nil {
		if err := s.runLog.Close(); err != nil {
			zap.L().Warn(fmt.Sprintf("failed to close the run log. Reason:%s", err))
		}
	}
	if s.logger != nil {
		_ = s.logger.Sync()
	}
}

func setupLogger(conf *core.Conf) (*zap.Logger, error) {
	logger, err := log.SetupGlobal(conf)
	if err != nil {
		fmt.Printf("Failed to setup logger. Reason:%s\n", err)
		return nil, err
	}
	return logger, nil
}

func loadSetting(conf *core.Conf) error {
	core.ResetSetting()
	registerSetting()
	zap.L().Debug("Registered setting")
	if err := core.ParseSettingFromPath(conf.SettingPath); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			zap.L().Error(fmt.Sprintf("failed to parse settings/reason:%s", err))
			return err
		}
		zap.L().Warn(fmt.Sprintf("no setting file at %s. Use defaults", conf.SettingPath))
	}
	sim, err := core.DecodeComponentSetting(qpu.SimulatorSettingKey, qpu.NewSimulatorSetting())
	if err != nil {
		return err
	}
	sim.Apply(conf)
	plot, err := core.DecodeComponentSetting(reporter.PlotSettingKey, reporter.NewPlotSetting())
	if err != nil {
		return err
	}
	plot.Apply(conf)
	return nil
}

func registerSetting() {
	core.RegisterSetting(qpu.SimulatorSettingKey, qpu.NewSimulatorSetting())
	core.RegisterSetting(grover.SearchSettingKey, grover.NewSearchSetting())
	core.RegisterSetting(reporter.PlotSettingKey, reporter.NewPlotSetting())
}
