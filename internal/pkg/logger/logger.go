package logger

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultLogFilePerm = 0o644
	defaultLogDirPerm  = 0o755
)

// DailyFilename returns the log filename for the given day.
func DailyFilename(now time.Time) string {
	return "server_" + now.Format("2006-01-02") + ".log"
}

// DailyWriter appends to one file per calendar day inside dir.
type DailyWriter struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

// NewDailyWriter creates dir when needed and returns a writer rooted there.
func NewDailyWriter(dir string) (*DailyWriter, error) {
	if err := os.MkdirAll(dir, defaultLogDirPerm); err != nil {
		return nil, err
	}
	return &DailyWriter{dir: dir, now: time.Now}, nil
}

// Dir returns the directory the writer appends to.
func (w *DailyWriter) Dir() string { return w.dir }

func (w *DailyWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	path := filepath.Join(w.dir, DailyFilename(w.now()))
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, defaultLogFilePerm)
	if err != nil {
		return 0, err
	}

	n, writeErr := file.Write(p)
	closeErr := file.Close()
	if writeErr != nil {
		return n, writeErr
	}
	return n, closeErr
}

func (w *DailyWriter) Sync() error {
	return nil
}

// Options controls logger construction.
type Options struct {
	Dev bool
	// Dir enables the daily file tee when non-empty.
	Dir string
}

// New builds the process logger: console output in development, JSON in
// production, optionally teed into a daily log file.
func New(opts Options) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if opts.Dev {
		level.SetLevel(zap.DebugLevel)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")

	var stdoutEncoder zapcore.Encoder
	if opts.Dev {
		devConfig := encoderConfig
		devConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		stdoutEncoder = zapcore.NewConsoleEncoder(devConfig)
	} else {
		stdoutEncoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(stdoutEncoder, zapcore.Lock(os.Stdout), level),
	}
	if opts.Dir != "" {
		writer, err := NewDailyWriter(opts.Dir)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(writer), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	_ = zap.RedirectStdLog(logger)
	return logger, nil
}
