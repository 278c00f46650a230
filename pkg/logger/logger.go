package logger

import "fmt"

// Init sets up the default logger before config is loaded.
// Wiring code uses the printf-style helpers below; request-scoped
// logging goes through the structured logger directly.
func Init() {
	InitStructured("local")
}

// Info logs a formatted message at info level
func Info(format string, args ...interface{}) {
	zlog.Info().Msg(fmt.Sprintf(format, args...))
}

// Warn logs a formatted message at warn level
func Warn(format string, args ...interface{}) {
	zlog.Warn().Msg(fmt.Sprintf(format, args...))
}

// Error logs a formatted message at error level
func Error(format string, args ...interface{}) {
	zlog.Error().Msg(fmt.Sprintf(format, args...))
}
