package util

import (
	"fmt"
	"math"
	"strings"
)

// IPv4 holds an address with the first octet in the lowest byte,
// the way the network stack of the controller keeps it in memory.
type IPv4 uint32

// NewIPv4 packs the given octets, a being the first one.
func NewIPv4(a, b, c, d uint8) IPv4 {
	return IPv4(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

// Octets returns the four octets in dotted-quad order
func (ip IPv4) Octets() [4]uint8 {
	return [4]uint8{
		uint8(ip),
		uint8(ip >> 8),
		uint8(ip >> 16),
		uint8(ip >> 24),
	}
}

func (ip IPv4) String() string {
	o := ip.Octets()
	return fmt.Sprintf("%d.%d.%d.%d", o[0], o[1], o[2], o[3])
}

// ParseInt accumulates all decimal digits of the given string, skipping any other character.
// A leading '-' is skipped as well, negative numbers are not supported.
// The result saturates at math.MaxInt32.
func ParseInt(value string) int {
	num := 0
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c < '0' || c > '9' {
			continue
		}
		num = num*10 + int(c-'0')
		if num > math.MaxInt32 {
			num = math.MaxInt32
		}
	}
	return num
}

// ParseIPv4 parses a dotted-quad address.
// Exactly three dots are required, every octet must contain at least one digit
// and must not exceed 255. Non-digit characters within an octet are skipped.
// If the value is not a valid address, (0, false) is returned.
func ParseIPv4(value string) (IPv4, bool) {
	parts := strings.Split(value, ".")
	if len(parts) != 4 {
		return 0, false
	}

	var octets [4]uint8
	for i, part := range parts {
		digits := 0
		num := 0
		for j := 0; j < len(part); j++ {
			c := part[j]
			if c < '0' || c > '9' {
				continue
			}
			digits++
			num = num*10 + int(c-'0')
			if num > 255 {
				return 0, false
			}
		}
		if digits == 0 {
			return 0, false
		}
		octets[i] = uint8(num)
	}

	return NewIPv4(octets[0], octets[1], octets[2], octets[3]), true
}

// CloneString returns an independent copy of the given string, or an empty string for nil.
func CloneString(value *string) string {
	if value == nil {
		return ""
	}
	return strings.Clone(*value)
}
