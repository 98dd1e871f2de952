package tailer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// TailOptions controls the initial snapshot read.
type TailOptions struct {
	// Offset is the byte position to read forward from. Negative means
	// "the last Limit lines of the file".
	Offset int64
	Limit  int
}

// TailResult carries the snapshot lines and the stream cursor to follow from.
type TailResult struct {
	Lines  []string
	Offset int64
}

// Tail reads the initial view of a watch target: the last Limit lines when
// Offset is negative, otherwise everything from Offset forward. The returned
// offset is the cursor subsequent Follow calls continue from; it never moves
// backward within a call.
func Tail(path string, opts TailOptions) (TailResult, error) {
	result := TailResult{Offset: opts.Offset}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			result.Offset = 0
			return result, nil
		}
		return result, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return result, fmt.Errorf("log path %q is a directory", path)
	}

	if opts.Offset < 0 {
		lines, offset, err := readLastLines(path, opts.Limit)
		if err != nil {
			return result, err
		}
		result.Lines = lines
		result.Offset = offset
		return result, nil
	}

	offset := opts.Offset
	if offset > info.Size() {
		offset = info.Size()
	}
	lines, newOffset, err := readAppended(path, offset)
	if err != nil {
		return result, err
	}
	result.Lines = lines
	result.Offset = newOffset
	return result, nil
}

// readLastLines scans the whole file through a fixed-size ring so memory
// stays bounded by limit, and leaves the cursor at end of file.
func readLastLines(path string, limit int) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("stat log file: %w", err)
	}
	size := info.Size()

	if limit <= 0 {
		return nil, size, nil
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	ring := make([]string, limit)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % limit
		if count < limit {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read log file: %w", err)
	}

	offset, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, 0, fmt.Errorf("determine log offset: %w", err)
	}

	lines := make([]string, count)
	if count == limit {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%limit]
		}
	} else {
		copy(lines, ring[:count])
	}

	return lines, offset, nil
}

// readAppended returns the complete lines written after offset. A trailing
// partial line (no newline yet) is left unconsumed so the cursor only ever
// advances past whole lines and a later call re-reads nothing.
func readAppended(path string, offset int64) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek log file: %w", err)
	}

	reader := bufio.NewReader(file)
	var lines []string
	newOffset := offset
	for {
		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return lines, newOffset, fmt.Errorf("read log file: %w", err)
		}
		newOffset += int64(len(line))
		lines = append(lines, trimLineEnding(line))
	}
	return lines, newOffset, nil
}

func trimLineEnding(line string) string {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
	}
	if n > 0 && line[n-1] == '\r' {
		n--
	}
	return line[:n]
}
