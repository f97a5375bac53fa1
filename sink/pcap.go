package sink

import (
	"bufio"
	"burstgen"
	"fmt"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	log "github.com/sirupsen/logrus"
	"io"
	"net"
	"os"
)

// DefaultSnapLen is the same default as tcpdump.
const DefaultSnapLen = 262144

// EcpriEncapsulation holds the ethernet addresses eCPRI frames are wrapped in
// before they are stored.
type EcpriEncapsulation struct {
	Source      net.HardwareAddr
	Destination net.HardwareAddr
}

var defaultEncapsulation = EcpriEncapsulation{
	Source:      net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01},
	Destination: net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
}

// Pcap stores generated frames in a libpcap capture with ethernet link type.
// Ethernet frames are stored from the destination address through the frame
// check sequence, eCPRI frames inside an ethernet header of type 0xAEFE. Gap
// markers are not packets and are skipped.
type Pcap struct {
	w      *bufio.Writer
	pw     *pcapgo.Writer
	closer io.Closer
	clock  burstgen.Clock

	Encapsulation EcpriEncapsulation

	packets int
}

// NewPcapWriter writes the capture file header to w and returns the sink.
func NewPcapWriter(w io.Writer, clock burstgen.Clock) (*Pcap, error) {
	if clock == nil {
		clock = burstgen.SystemClock
	}

	bw := bufio.NewWriter(w)
	pw := pcapgo.NewWriterNanos(bw)
	if err := pw.WriteFileHeader(DefaultSnapLen, layers.LinkTypeEthernet); err != nil {
		return nil, fmt.Errorf("writing pcap header: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return nil, err
	}

	return &Pcap{
		w:             bw,
		pw:            pw,
		clock:         clock,
		Encapsulation: defaultEncapsulation,
	}, nil
}

// CreatePcapFile truncates or creates path and returns a sink writing to it.
func CreatePcapFile(path string, clock burstgen.Clock) (*Pcap, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	s, err := NewPcapWriter(f, clock)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	s.closer = f
	return s, nil
}

func (s *Pcap) WriteBurst(b burstgen.Burst) error {
	for _, e := range b.Entries {
		frame, ok := e.(burstgen.Frame)
		if !ok {
			continue
		}

		data, err := s.linkLayer(b.Protocol, frame)
		if err != nil {
			return err
		}

		ci := gopacket.CaptureInfo{
			Timestamp:     s.clock.Now(),
			CaptureLength: len(data),
			Length:        len(data),
		}
		if err := s.pw.WritePacket(ci, data); err != nil {
			return err
		}
		s.packets++
	}

	if err := s.w.Flush(); err != nil {
		return err
	}

	log.WithField("prefix", "sink").
		WithField("packets", s.packets).
		Trace("burst written")
	return nil
}

func (s *Pcap) linkLayer(protocol burstgen.PayloadType, frame burstgen.Frame) ([]byte, error) {
	switch protocol {
	case burstgen.PayloadEthernet:
		f := burstgen.EthernetFrame(frame)
		if len(f) < burstgen.EthernetOverhead {
			return nil, fmt.Errorf("ethernet frame too short: %d bytes", len(f))
		}
		return f[burstgen.PreambleLen+1:], nil

	case burstgen.PayloadEcpri:
		buf := gopacket.NewSerializeBuffer()
		eth := &layers.Ethernet{
			SrcMAC:       s.Encapsulation.Source,
			DstMAC:       s.Encapsulation.Destination,
			EthernetType: layers.EthernetType(burstgen.EtherTypeEcpri.Uint16()),
		}
		if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, eth, gopacket.Payload(frame)); err != nil {
			return nil, fmt.Errorf("encapsulating ecpri frame: %w", err)
		}
		return buf.Bytes(), nil
	}

	return nil, fmt.Errorf("%w: %v", burstgen.ErrUnknownPayloadType, protocol)
}

// Packets returns the number of packets stored so far.
func (s *Pcap) Packets() int {
	return s.packets
}

func (s *Pcap) Close() error {
	err := s.w.Flush()
	if s.closer != nil {
		if cErr := s.closer.Close(); err == nil {
			err = cErr
		}
	}
	return err
}
