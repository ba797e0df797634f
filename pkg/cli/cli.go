package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Fepozopo/pixedit/pkg/config"
	"github.com/Fepozopo/pixedit/pkg/edit"
	"github.com/Fepozopo/pixedit/pkg/metrics"
	"github.com/Fepozopo/pixedit/pkg/session"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "Commands available:")
	fmt.Fprintln(w, "  open <path>          - open an image")
	fmt.Fprintln(w, "  save <path>          - save the current image (.png, .jpg, .gif, .bmp, .tif)")
	fmt.Fprintln(w, "  info                 - show size and history of the current image")
	fmt.Fprintln(w, "  undo                 - revert the last edit")
	fmt.Fprintln(w, "  ops                  - list available edits")
	fmt.Fprintln(w, "  metrics              - dump engine metrics")
	fmt.Fprintln(w, "  help                 - show this help message")
	fmt.Fprintln(w, "  quit                 - exit")
	fmt.Fprintln(w, "  <edit> [value]       - apply an edit, e.g. 'brightness 30' or 'rotate 90'")
}

// NewLogger builds the process logger described by cfg.
func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewEngine builds an edit engine from cfg.
func NewEngine(cfg config.EngineConfig, logger *slog.Logger) (*edit.Engine, error) {
	blur, err := edit.NewBlurBackend(cfg.BlurBackend)
	if err != nil {
		return nil, err
	}
	return edit.NewEngine(
		edit.WithBlurBackend(blur),
		edit.WithSharpenEdge(cfg.EdgePolicy()),
		edit.WithLogger(logger),
	), nil
}

// REPL drives one editing session from line-oriented text input.
type REPL struct {
	sess     *session.Session
	out      io.Writer
	metrics  bool
	gatherer prometheus.Gatherer

	path   string
	format string
}

// NewREPL returns a REPL over a fresh session configured by cfg.
func NewREPL(cfg *config.Config, logger *slog.Logger, out io.Writer) (*REPL, error) {
	engine, err := NewEngine(cfg.Engine, logger)
	if err != nil {
		return nil, err
	}
	sess := session.New(engine,
		session.WithLogger(logger),
		session.WithHistoryLimit(cfg.History.MaxEntries),
	)
	return &REPL{
		sess:     sess,
		out:      out,
		metrics:  cfg.Metrics.Enabled,
		gatherer: prometheus.DefaultGatherer,
	}, nil
}

// Session returns the session driven by r.
func (r *REPL) Session() *session.Session { return r.sess }

// Open loads the image at path into the session.
func (r *REPL) Open(path string) error {
	img, format, err := LoadImage(path)
	if err != nil {
		return fmt.Errorf("failed to read image %s: %w", path, err)
	}
	buf, err := edit.FromImage(img)
	if err != nil {
		return err
	}
	if err := r.sess.Load(buf); err != nil {
		return err
	}
	r.path, r.format = path, format
	fmt.Fprintf(r.out, "Opened %s\n", path)
	r.info()
	return nil
}

func (r *REPL) info() {
	cur := r.sess.Current()
	if cur == nil {
		fmt.Fprintln(r.out, "No image loaded.")
		return
	}
	format := r.format
	if format == "" {
		format = "unknown"
	}
	fmt.Fprintf(r.out, "Format: %s, Width: %d, Height: %d, History: %d (%s)\n",
		format, cur.Width(), cur.Height(), r.sess.Len(), r.sess.State())
}

func (r *REPL) listOps() {
	for _, s := range edit.Catalog {
		line := fmt.Sprintf("  %-22s %s", s.Usage, s.Description)
		if s.Param != nil {
			line += fmt.Sprintf(" [%s %g..%g, default %g]", s.Param.Name, s.Param.Min, s.Param.Max, s.Param.Default)
		}
		if len(s.Aliases) > 0 {
			line += " (aliases: " + strings.Join(s.Aliases, ", ") + ")"
		}
		fmt.Fprintln(r.out, line)
	}
}

// Execute runs one input line and reports whether the REPL should exit.
func (r *REPL) Execute(ctx context.Context, line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "q", "quit", "exit":
		fmt.Fprintln(r.out, "Exiting...")
		return true

	case "h", "help", "?":
		usage(r.out)

	case "o", "open":
		if len(args) == 0 {
			fmt.Fprintln(r.out, "usage: open <path>")
			return false
		}
		if err := r.Open(strings.Join(args, " ")); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}

	case "s", "save":
		if len(args) == 0 {
			fmt.Fprintln(r.out, "usage: save <path>")
			return false
		}
		cur := r.sess.Current()
		if cur == nil {
			fmt.Fprintln(r.out, "No image loaded. Use 'open <path>' first.")
			return false
		}
		out := strings.Join(args, " ")
		if err := SaveImage(out, cur.Image()); err != nil {
			fmt.Fprintf(r.out, "failed to write image: %v\n", err)
			return false
		}
		fmt.Fprintf(r.out, "Saved to %s\n", out)

	case "i", "info":
		r.info()

	case "u", "undo":
		undone, err := r.sess.Undo()
		switch {
		case err != nil:
			fmt.Fprintln(r.out, edit.UserMessage(err))
		case undone:
			fmt.Fprintln(r.out, "Undone.")
			r.info()
		default:
			fmt.Fprintln(r.out, "Nothing to undo.")
		}

	case "ops":
		r.listOps()

	case "metrics":
		if !r.metrics {
			fmt.Fprintln(r.out, "metrics are disabled")
			return false
		}
		if err := metrics.WriteText(r.out, r.gatherer); err != nil {
			fmt.Fprintf(r.out, "metrics error: %v\n", err)
		}

	default:
		r.apply(ctx, fields[0], args)
	}
	return false
}

func (r *REPL) apply(ctx context.Context, name string, args []string) {
	if r.sess.Current() == nil {
		fmt.Fprintln(r.out, "No image loaded. Use 'open <path>' first, or pass an image path as the first argument.")
		return
	}
	op, err := edit.Parse(name, args)
	if err != nil {
		fmt.Fprintf(r.out, "input validation error: %v\n", err)
		return
	}
	if edit.Expensive(op) {
		fmt.Fprintln(r.out, edit.Describe(op)+"...")
	}
	outcome := <-r.sess.Submit(ctx, op)
	switch {
	case outcome.Err == nil:
		fmt.Fprintln(r.out, outcome.Result.Description)
		r.info()
	case errors.Is(outcome.Err, edit.ErrResourceExhausted) && outcome.Result != nil:
		fmt.Fprintln(r.out, outcome.Result.Advisory)
	default:
		fmt.Fprintln(r.out, edit.UserMessage(outcome.Err))
	}
}

// Run reads commands from in until quit or EOF. When imagePath is set it is
// opened before the first prompt.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, imagePath string, in io.Reader, out io.Writer) error {
	r, err := NewREPL(cfg, logger, out)
	if err != nil {
		return err
	}
	if imagePath != "" {
		if err := r.Open(imagePath); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "Terminal Image Editor")
	usage(out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if r.Execute(ctx, scanner.Text()) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("read input: %w", err)
	}
	fmt.Fprintln(out)
	return nil
}
