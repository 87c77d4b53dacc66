package core

// Logger is any service that can log leveled messages along with optional
// structured arguments (errors, maps, the acting user.User...).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
