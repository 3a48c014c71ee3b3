// Package logger is the session event log for the shell. Events are written
// as newline delimited JSON through zap and can be summarized into a Report.
package logger
