package schema

import (
	"encoding/hex"
	"strconv"
)

func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}
