package logger

import (
	"log"
	"os"
)

var (
	InfoLogger  *log.Logger
	WarnLogger  *log.Logger
	ErrorLogger *log.Logger
)

func init() {
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	WarnLogger = log.New(os.Stdout, "WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
}

// Messages are plain text, never format strings. Spreadsheet imports put
// user-supplied values (product codes, row errors) into log lines, so a stray
// percent sign must come through verbatim.

func Info(msg string, v ...interface{}) {
	InfoLogger.Println(append([]interface{}{msg}, v...)...)
}

func Warn(msg string, v ...interface{}) {
	WarnLogger.Println(append([]interface{}{msg}, v...)...)
}

func Error(msg string, err error) {
	if err == nil {
		ErrorLogger.Println(msg)
		return
	}
	ErrorLogger.Println(msg+":", err)
}
