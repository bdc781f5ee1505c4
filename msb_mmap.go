package msb

import (
	"bytes"
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/mapstudio/msb/internal/msberr"
)

// mmapFile memory-maps an MSB file read-only and hands the mapped bytes to
// Decode through a bytes.Reader, avoiding a full read(2) copy for large map
// files. The mapping stays alive only for the duration of OpenMmap; Decode
// consumes it into live Go values before the mapping is released.
type mmapFile struct {
	f    *os.File
	data mmap.MMap
}

func openMmapFile(path string) (*mmapFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &mmapFile{f: f, data: data}, nil
}

func (m *mmapFile) Close() error {
	unmapErr := m.data.Unmap()
	closeErr := m.f.Close()
	if unmapErr != nil {
		return unmapErr
	}
	return closeErr
}

// OpenMmap behaves like Open but reads the file through a read-only memory
// mapping instead of buffered file I/O, trading a page fault cost spread
// across the parse for the upfront cost of reading the whole file.
func OpenMmap(path string) (*MSB, error) {
	mf, err := openMmapFile(path)
	if err != nil {
		return nil, msberr.WrapIO("mapping", path, err)
	}
	defer mf.Close()

	m, err := Decode(bytes.NewReader(mf.data))
	if err != nil {
		return nil, msberr.WrapIO("reading", path, err)
	}
	return m, nil
}
