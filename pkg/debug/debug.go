package debug

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// Options configures the command line logger
type Options struct {
	Debug bool
	Color bool
	// JSON writes raw zerolog JSON instead of console lines
	JSON bool
}

// NewLogger builds the logger used by the importdecl commands. Console output
// carries a millisecond timestamp and, in debug mode, the calling package and
// line.
func NewLogger(w io.Writer, opts Options) zerolog.Logger {
	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	out := w
	if !opts.JSON {
		out = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    !opts.Color,
			TimeFormat: "15:04:05.000",
		}
	}

	logger := zerolog.New(out).Level(level).Hook(CustomTimeHook{})
	if opts.Debug {
		logger = logger.Hook(CustomCallerHook{WithColor: opts.Color})
	}
	return logger
}

// WithLogger attaches a logger built from opts to ctx
func WithLogger(ctx context.Context, w io.Writer, opts Options) context.Context {
	logger := NewLogger(w, opts)
	return logger.WithContext(ctx)
}

func hackGetCallerSkipFrameCount(e *zerolog.Event) int {
	// Access the unexported skipFrame field
	v := reflect.ValueOf(e).Elem()
	field := v.FieldByName("skipFrame")

	if field.IsValid() && field.CanAddr() {
		return int(field.Int())
	}

	return 0
}

// CustomTimeHook stamps every event with a millisecond precision time and no
// timezone.
type CustomTimeHook struct{}

func (t CustomTimeHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str("time", time.Now().Format("2006-01-02T15:04:05.0000Z"))
}

type CustomCallerHook struct {
	WithColor bool
}

func (c CustomCallerHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	pc, file, line, ok := runtime.Caller(hackGetCallerSkipFrameCount(e) + 3)
	if !ok {
		return
	}

	funcd := runtime.FuncForPC(pc)
	if funcd == nil {
		return
	}

	pkg, _ := GetPackageAndFuncFromFuncName(funcd.Name())

	e.Str("caller", FormatCaller(pkg, file, line, c.WithColor))
}

func GetPackageAndFuncFromFuncName(pc string) (pkg, function string) {
	funcName := pc
	lastSlash := strings.LastIndexByte(funcName, '/')
	if lastSlash < 0 {
		lastSlash = 0
	}

	firstDot := strings.IndexByte(funcName[lastSlash:], '.') + lastSlash
	if firstDot < lastSlash {
		return funcName, ""
	}

	pkg = funcName[:firstDot]
	fname := funcName[firstDot+1:]

	if strings.Contains(pkg, ".(") {
		splt := strings.Split(pkg, ".(")
		pkg = splt[0]
		fname = "(" + splt[1] + "." + fname
	}

	return pkg, fname
}

func FormatCaller(pkg, path string, number int, colorize bool) string {
	p := FileNameOfPath(path)
	if colorize {
		p = color.New(color.Bold).Sprint(p)
		num := color.New(color.FgHiRed, color.Bold).Sprintf("%d", number)
		sep := color.New(color.Faint).Sprint(":")

		return fmt.Sprintf("%s%s%s%s%s", pkg, sep, p, sep, num)
	}

	return fmt.Sprintf("%s:%s:%d", pkg, p, number)
}

func FileNameOfPath(path string) string {
	tot := strings.Split(path, "/")
	if len(tot) > 1 {
		return tot[len(tot)-1]
	}

	return path
}
