package link

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tarm/serial"
)

// DefaultBaud matches the robot's UART.
const DefaultBaud = 115200

// readTimeout bounds each serial read so Run can notice cancellation.
const readTimeout = 200 * time.Millisecond

// OpenSerial opens a serial port for the command link.
func OpenSerial(name string, baud int) (io.ReadWriteCloser, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        baud,
		ReadTimeout: readTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("link: open %s: %w", name, err)
	}
	return port, nil
}

// WriteBanner greets the operator with the version and the command list.
func WriteBanner(w io.Writer, version string, commands []string) error {
	_, err := fmt.Fprintf(w, "ENIC %s\r\nKomutlar: %s\r\n", version, strings.Join(commands, " | "))
	if err != nil {
		return fmt.Errorf("link: write banner: %w", err)
	}
	return nil
}
