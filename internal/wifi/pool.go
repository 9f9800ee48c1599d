package wifi

import (
	"fmt"
	"github.com/pwmfan/pwmfan/internal/util"
)

// toHostOrder converts an address to a number where the first octet is the most significant byte
func toHostOrder(ip util.IPv4) uint32 {
	o := ip.Octets()
	return uint32(o[0])<<24 | uint32(o[1])<<16 | uint32(o[2])<<8 | uint32(o[3])
}

func fromHostOrder(v uint32) util.IPv4 {
	return util.NewIPv4(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v))
}

// AddressPool returns the first and last address handed out by the DHCP server.
// The pool starts right after the server address and holds at most size addresses,
// staying below the broadcast address of the subnet. If there is no room above the
// server address, the pool ends right before it instead.
func AddressPool(ip util.IPv4, netmask util.IPv4, size int) (start util.IPv4, end util.IPv4, err error) {
	if size <= 0 {
		return 0, 0, fmt.Errorf("invalid pool size %d", size)
	}
	addr := toHostOrder(ip)
	mask := toHostOrder(netmask)
	network := addr & mask
	broadcast := network | ^mask

	if addr < broadcast && addr+1 < broadcast {
		first := addr + 1
		last := first + uint32(size) - 1
		if last >= broadcast || last < first {
			last = broadcast - 1
		}
		return fromHostOrder(first), fromHostOrder(last), nil
	}

	if addr > network+1 {
		last := addr - 1
		first := network + 1
		if last-first+1 > uint32(size) {
			first = last - uint32(size) + 1
		}
		return fromHostOrder(first), fromHostOrder(last), nil
	}

	return 0, 0, fmt.Errorf("no addresses left in subnet %s/%s around %s", fromHostOrder(network), netmask, ip)
}
