package feed

import (
	"context"
	"fmt"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service feeds register under.
const ServiceType = "_circlez._tcp"

// Advertisement is a running mDNS responder.
type Advertisement struct {
	server *mdns.Server
}

// Close stops answering queries.
func (a *Advertisement) Close() error {
	return a.server.Shutdown()
}

// Advertise announces a feed on port. An empty name uses the hostname.
func Advertise(name string, port int) (*Advertisement, error) {
	if name == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("get hostname: %w", err)
		}
		name = host
	}

	info := []string{"circlez", "path=/ws"}
	service, err := mdns.NewMDNSService(name, ServiceType, "", "", port, nil, info)
	if err != nil {
		return nil, fmt.Errorf("create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("start mDNS responder: %w", err)
	}
	return &Advertisement{server: server}, nil
}

// Peer is a feed found on the local network.
type Peer struct {
	Name string
	Host string
	Addr net.IP
	Port int
}

// Address is host:port suitable for Dial.
func (p Peer) Address() string {
	return net.JoinHostPort(p.Addr.String(), strconv.Itoa(p.Port))
}

// Discover browses for feeds for up to timeout and returns them sorted by
// name. Entries without an IPv4 address or port are skipped.
func Discover(ctx context.Context, timeout time.Duration) ([]Peer, error) {
	entries := make(chan *mdns.ServiceEntry, 16)
	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	errc := make(chan error, 1)
	go func() {
		errc <- mdns.Query(params)
		close(entries)
	}()

	seen := make(map[string]Peer)
	for {
		select {
		case <-ctx.Done():
			return sortedPeers(seen), ctx.Err()
		case e, ok := <-entries:
			if !ok {
				return sortedPeers(seen), <-errc
			}
			if p, ok := peerFromEntry(e); ok {
				seen[p.Address()] = p
			}
		}
	}
}

func peerFromEntry(e *mdns.ServiceEntry) (Peer, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return Peer{}, false
	}
	// Name is "<instance>._circlez._tcp.local."
	name := strings.TrimSuffix(e.Name, ".")
	if i := strings.Index(name, "."+ServiceType); i > 0 {
		name = name[:i]
	}
	return Peer{Name: name, Host: e.Host, Addr: e.AddrV4, Port: e.Port}, true
}

func sortedPeers(m map[string]Peer) []Peer {
	out := make([]Peer, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
