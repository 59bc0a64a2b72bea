package evaluator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"

	"github.com/funvibe/sumlang/internal/config"
)

// Host provides the file services behind open, get_byte and close.
// Handles are positive integers owned by the host.
type Host interface {
	Open(path string, mode int) (int, error)
	// GetByte reads the next byte; eof is true once the stream is exhausted.
	GetByte(handle int) (b byte, eof bool, err error)
	Close(handle int) error
	PathSeparator() string
}

// HostError carries a platform error code and message into programs.
type HostError struct {
	Code    int
	Message string
}

func (e *HostError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// hostError extracts a code from err: the errno when there is one.
func hostError(err error) *HostError {
	var he *HostError
	if errors.As(err, &he) {
		return he
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return &HostError{Code: int(errno), Message: err.Error()}
	}
	return &HostError{Code: config.ExitFailure, Message: err.Error()}
}

type osFile struct {
	file   *os.File
	reader *bufio.Reader
}

// OSHost serves files from the operating system. The handle table is
// guarded so one host may be shared by several evaluators.
type OSHost struct {
	mu      sync.Mutex
	next    int
	handles map[int]*osFile
}

func NewOSHost() *OSHost {
	return &OSHost{next: 1, handles: make(map[int]*osFile)}
}

func (h *OSHost) Open(path string, mode int) (int, error) {
	var flag int
	switch mode {
	case config.StreamIn:
		flag = os.O_RDONLY
	case config.StreamOut:
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case config.StreamBoth:
		flag = os.O_RDWR | os.O_CREATE
	default:
		return 0, &HostError{Code: int(syscall.EINVAL), Message: fmt.Sprintf("invalid stream mode %d", mode)}
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return 0, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	handle := h.next
	h.next++
	h.handles[handle] = &osFile{file: f, reader: bufio.NewReader(f)}
	return handle, nil
}

func (h *OSHost) lookup(handle int) (*osFile, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.handles[handle]
	if !ok {
		return nil, &HostError{Code: int(syscall.EBADF), Message: fmt.Sprintf("bad file handle %d", handle)}
	}
	return f, nil
}

func (h *OSHost) GetByte(handle int) (byte, bool, error) {
	f, err := h.lookup(handle)
	if err != nil {
		return 0, false, err
	}
	b, err := f.reader.ReadByte()
	if errors.Is(err, io.EOF) {
		return 0, true, nil
	}
	if err != nil {
		return 0, false, err
	}
	return b, false, nil
}

func (h *OSHost) Close(handle int) error {
	h.mu.Lock()
	f, ok := h.handles[handle]
	delete(h.handles, handle)
	h.mu.Unlock()
	if !ok {
		return &HostError{Code: int(syscall.EBADF), Message: fmt.Sprintf("bad file handle %d", handle)}
	}
	return f.file.Close()
}

func (h *OSHost) PathSeparator() string {
	return string(os.PathSeparator)
}
