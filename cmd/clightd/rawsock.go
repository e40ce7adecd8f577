//go:build linux

package main

import (
	"fmt"
	"net"
	"time"

	"golang.org/x/sys/unix"
)

// rawSocket, bir Ethernet arayüzüne bağlı AF_PACKET soketidir. Kart
// protokolü IP üzerinde değil doğrudan Ethernet çerçeveleriyle konuştuğu
// için ham soket gerekir (CAP_NET_RAW ister).
type rawSocket struct {
	fd      int
	ifindex int
	name    string
}

// hostToNet16, 16 bitlik değeri ağ bayt sırasına çevirir.
func hostToNet16(v uint16) uint16 {
	return v<<8 | v>>8
}

// openRawSocket, verilen arayüzde tüm EtherType'ları alan ham soket açar.
func openRawSocket(ifname string) (*rawSocket, error) {
	iface, err := net.InterfaceByName(ifname)
	if err != nil {
		return nil, fmt.Errorf("arayüz bulunamadı %q: %w", ifname, err)
	}

	fd, err := unix.Socket(unix.AF_PACKET, unix.SOCK_RAW, int(hostToNet16(unix.ETH_P_ALL)))
	if err != nil {
		return nil, fmt.Errorf("ham soket açılamadı: %w", err)
	}

	addr := &unix.SockaddrLinklayer{
		Protocol: hostToNet16(unix.ETH_P_ALL),
		Ifindex:  iface.Index,
	}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("soket arayüze bağlanamadı: %w", err)
	}

	return &rawSocket{fd: fd, ifindex: iface.Index, name: ifname}, nil
}

// Send, çerçeveyi hatta yazar.
func (s *rawSocket) Send(frame []byte) error {
	if _, err := unix.Write(s.fd, frame); err != nil {
		return fmt.Errorf("çerçeve yazılamadı (%s): %w", s.name, err)
	}
	return nil
}

// Recv, bir çerçeve okur. Süre dolarsa (nil, nil) döner.
func (s *rawSocket) Recv(timeout time.Duration) ([]byte, error) {
	tv := unix.NsecToTimeval(timeout.Nanoseconds())
	if err := unix.SetsockoptTimeval(s.fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		return nil, fmt.Errorf("okuma zaman aşımı ayarlanamadı: %w", err)
	}

	buf := make([]byte, 2048)
	n, err := unix.Read(s.fd, buf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR {
			return nil, nil
		}
		return nil, fmt.Errorf("çerçeve okunamadı (%s): %w", s.name, err)
	}
	return buf[:n], nil
}

// Close, soketi kapatır.
func (s *rawSocket) Close() error {
	return unix.Close(s.fd)
}
