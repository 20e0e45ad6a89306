package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var (
	diagLog  zerolog.Logger
	diagFile *os.File
	logMu    sync.Mutex
	logReady bool
	pid      int
	dir      string
)

// RenderMetrics describes one icon render pass.
type RenderMetrics struct {
	Bars     int
	Width    int
	Height   int
	PNGBytes int
	EncodeMs float64
}

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		if !filepath.IsAbs(flagPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, flagPath), nil
		}
		return flagPath, nil
	}

	// Priority 2: PACEBAR_LOG_PATH environment variable
	envPath := os.Getenv("PACEBAR_LOG_PATH")
	if envPath != "" {
		if !filepath.IsAbs(envPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, envPath), nil
		}
		return envPath, nil
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

// IconRender records the per-pass render cost and output size.
func IconRender(m RenderMetrics) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("bars", m.Bars).
		Int("width", m.Width).
		Int("height", m.Height).
		Int("png_bytes", m.PNGBytes).
		Float64("encode_ms", m.EncodeMs).
		Msg("icon_render")
}

// SnapshotLoaded records what the usage loader found.
func SnapshotLoaded(ageMin float64, placeholder bool) {
	if !logReady {
		return
	}
	diagLog.Info().
		Float64("age_min", ageMin).
		Bool("placeholder", placeholder).
		Msg("snapshot_loaded")
}

// RefreshLaunched records a background scraper launch.
func RefreshLaunched(cmd string) {
	if !logReady {
		return
	}
	diagLog.Info().Str("cmd", cmd).Msg("refresh_launched")
}

// RefreshDone records the outcome of a synchronous refresh.
func RefreshDone(ok bool, ms float64) {
	if !logReady {
		return
	}
	diagLog.Info().
		Bool("ok", ok).
		Float64("total_ms", ms).
		Msg("refresh_done")
}

// AlertSent records a pace notification that actually fired.
func AlertSent(tier, band string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("tier", tier).
		Str("band", band).
		Msg("alert_sent")
}

func SessionStart(mode string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("mode", mode).
		Msg("session_start")
}

func SessionEnd(renders int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("renders", renders).
		Msg("session_end")
}
