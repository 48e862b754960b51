// Package logger wraps zap for the host tools:
//   - a global sugared logger with a console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing,
//   - a bridge that routes the firmware core's debug output into zap.
package logger
