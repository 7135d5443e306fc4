package core

// Logger is any service that can log leveled messages with optional
// structured details (an error and/or a map[string]interface{}).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
