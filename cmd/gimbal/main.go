// Command gimbal is a console for the gimbal 3D math library: it evaluates
// Lisp expressions over vectors, quaternions, matrices and bounding volumes,
// and runs a demo that checks the analytic bounds against the sdfx kernel.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chazu/gimbal/pkg/config"
	"github.com/chazu/gimbal/pkg/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appName = "gimbal"

// version is overridden at link time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// cli holds the state shared by the subcommands once the root command has
// loaded configuration.
type cli struct {
	cfgFile  string
	logLevel string

	cfg config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           appName,
		Short:         "Quaternions, matrices and bounding volumes at a Lisp prompt",
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default: ./gimbal.yaml or $HOME/.gimbal/gimbal.yaml)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level, overrides log.level")

	root.AddCommand(c.evalCmd(), c.demoCmd(), versionCmd())
	return root
}

func (c *cli) init() error {
	v := config.New()
	cfg, err := config.Load(v, c.cfgFile)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return err
	}
	c.cfg, c.log = cfg, log.Named(appName)
	if f := config.ConfigFile(v); f != "" {
		c.log.Debug("loaded config", zap.String("file", f))
	}
	return nil
}

func (c *cli) evalCmd() *cobra.Command {
	var expr string
	cmd := &cobra.Command{
		Use:   "eval [file...]",
		Short: "Evaluate gimbal Lisp from -e, files, or stdin",
		Example: `  gimbal eval -e '(rotate (quat 90 (vec3 0 0 1)) (vec3 1 0 0))'
  gimbal eval scene.gimbal`,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd.InOrStdin(), expr, args)
			if err != nil {
				return err
			}
			return c.eval(cmd.OutOrStdout(), source)
		},
	}
	cmd.Flags().StringVarP(&expr, "expr", "e", "", "expression to evaluate")
	return cmd
}

func (c *cli) eval(w io.Writer, source string) error {
	result := NewApp(c.cfg, c.log).Evaluate(source)
	if len(result.Errors) > 0 {
		msgs := make([]string, len(result.Errors))
		for i, e := range result.Errors {
			if e.Line > 0 {
				msgs[i] = fmt.Sprintf("line %d: %s", e.Line, e.Message)
			} else {
				msgs[i] = e.Message
			}
		}
		return fmt.Errorf("eval: %s", strings.Join(msgs, "; "))
	}
	if result.Text != "" {
		_, err := fmt.Fprintln(w, result.Text)
		return err
	}
	return nil
}

// readSource picks the program text: an -e expression wins, then the named
// files concatenated, then stdin.
func readSource(stdin io.Reader, expr string, files []string) (string, error) {
	if expr != "" {
		return expr, nil
	}
	if len(files) == 0 {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	var sb strings.Builder
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return "", err
		}
		sb.Write(b)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func (c *cli) demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Intersect a segment with a transformed box and cross-check bounds with sdfx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := NewApp(c.cfg, c.log).Demo()
			if err != nil {
				return err
			}
			_, err = report.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, version)
			return err
		},
	}
}
