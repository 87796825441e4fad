package server

import "fmt"

const (
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	Gray    = "\033[90m" // Bright black, often appears as gray

	ResetColor = "\033[0m" // Reset to default color
)

var methodColors = map[string]string{
	"GET":     Green,
	"POST":    Blue,
	"PUT":     Cyan,
	"DELETE":  Yellow,
	"PATCH":   Magenta,
	"OPTIONS": Gray,
}

// colourMethod pads the method and wraps it in its terminal colour
func colourMethod(method string) string {
	padded := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	return color + padded + ResetColor
}

// colourStatus colours a response status by class
func colourStatus(status int) string {
	color := Green
	switch {
	case status >= 500:
		color = Red
	case status >= 400:
		color = Yellow
	case status >= 300:
		color = Cyan
	}
	return fmt.Sprintf("%s%d%s", color, status, ResetColor)
}
