package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

type flogger interface {
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

// ThreadLogger prefixes every line with the name of the loop writing it.
type ThreadLogger struct {
	name string
}

func (l *ThreadLogger) Printf(format string, v ...interface{}) {
	log.Printf("%s: %s", l.name, fmt.Sprintf(format, v...))
}

func (l *ThreadLogger) Println(v ...interface{}) {
	log.Printf("%s: %s", l.name, fmt.Sprint(v...))
}

// setupLogging sends the standard logger to a rotating log file when one
// is configured. console mode owns the terminal, so stderr is only kept
// otherwise.
func setupLogging(s configSettings, console bool) io.Closer {
	path := s.GetString(sLogFile)
	if path == "" {
		if console {
			log.SetOutput(io.Discard)
		}
		return nil
	}

	l := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	if console {
		log.SetOutput(l)
	} else {
		log.SetOutput(io.MultiWriter(os.Stderr, l))
	}
	return l
}
