package fec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// These three CRC-16 variants correspond to well-known catalogued
// parameter sets (CRC-16/XMODEM, CRC-16/MODBUS, CRC-16/ARC); their
// "check" values over the ASCII string "123456789" are the standard
// cross-implementation test vectors for each.
func TestCRC16_KnownCheckValues(t *testing.T) {
	data := []byte("123456789")

	require.Equal(t, uint16(0x31C3), CRC16CCITT(data))
	require.Equal(t, uint16(0x4B37), CRC16ReflectedMRZ(data))
	require.Equal(t, uint16(0xBB3D), CRC16MTS01(data))
}

func TestCRC16CCITT_EmptyIsZero(t *testing.T) {
	require.Equal(t, uint16(0), CRC16CCITT(nil))
}
