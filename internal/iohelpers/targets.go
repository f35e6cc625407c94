// Package iohelpers parses the CLI's file-backed inputs: the -n target
// argument (a bare hex digest or a file_data_id;hex file) and plain
// file opens with the engine's own I/O error kind.
package iohelpers

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"namehash/pkg/errs"
)

// Open wraps os.Open, translating the OS error into the engine's
// structured I/O error kind.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.IO(path, err)
	}
	return f, nil
}

// ParseTargets resolves the -n argument: if raw parses as a bare
// hexadecimal u64, it is the sole target with no identifier; otherwise
// raw is treated as a path to a file of "file_data_id;hex" lines.
func ParseTargets(raw string) (digests []uint64, ids []uint32, err error) {
	if h, perr := strconv.ParseUint(raw, 16, 64); perr == nil {
		return []uint64{h}, nil, nil
	}

	f, err := Open(raw)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		idStr, hexStr, ok := strings.Cut(line, ";")
		if !ok {
			continue
		}
		id, perr := strconv.ParseUint(idStr, 10, 32)
		if perr != nil {
			continue
		}
		h, perr := strconv.ParseUint(hexStr, 16, 64)
		if perr != nil {
			continue
		}
		digests = append(digests, h)
		ids = append(ids, uint32(id))
	}
	if serr := scanner.Err(); serr != nil {
		return nil, nil, errs.IO(raw, serr)
	}
	if len(digests) == 0 {
		return nil, nil, errs.Usage("no target digests parsed from %s", raw)
	}
	return digests, ids, nil
}
