package sink

import (
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultAddr is the Sensu client socket.
const DefaultAddr = "127.0.0.1:3030"

// UDPSink sends each event as a JSON line in a single datagram.
type UDPSink struct {
	addr    string
	timeout time.Duration
	logger  *logrus.Logger
}

// NewUDP creates a sink for the collector listening on addr.
func NewUDP(addr string, logger *logrus.Logger) *UDPSink {
	if addr == "" {
		addr = DefaultAddr
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &UDPSink{
		addr:    addr,
		timeout: time.Second,
		logger:  logger,
	}
}

// Emit sends e. Failures are logged and dropped.
func (s *UDPSink) Emit(e Event) {
	log := s.logger.WithFields(logrus.Fields{"event": e.Name, "addr": s.addr})

	data, err := Encode(e)
	if err != nil {
		log.WithError(err).Warn("Cannot encode event")
		return
	}

	conn, err := net.DialTimeout("udp", s.addr, s.timeout)
	if err != nil {
		log.WithError(err).Warn("Cannot reach event collector")
		return
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(s.timeout))
	if _, err := conn.Write(data); err != nil {
		log.WithError(err).Warn("Event delivery failed")
		return
	}
	log.WithField("status", e.Status).Debug("Event sent")
}
