package systemutil

import (
	"bufio"
	"errors"
	"io"
	"os/exec"
	"sync"
)

const maxLineSize = 1024 * 1024

// Line is one non-empty line of process output.
type Line struct {
	Text   string
	Stderr bool
}

// LineStream merges stdout and stderr of a process into a single ordered
// sequence of lines. Lines from the same stream keep their order.
type LineStream struct {
	lines    chan Line
	current  Line
	wait     func() error
	once     sync.Once
	exitCode int
	waitErr  error
}

// NewLineStream starts reading stdout and stderr. wait is called once both
// readers are drained; it may be nil.
func NewLineStream(stdout, stderr io.Reader, wait func() error) *LineStream {
	s := &LineStream{
		lines: make(chan Line),
		wait:  wait,
	}

	var wg sync.WaitGroup
	for _, src := range []struct {
		r      io.Reader
		stderr bool
	}{{stdout, false}, {stderr, true}} {
		if src.r == nil {
			continue
		}
		wg.Add(1)
		go func(r io.Reader, isStderr bool) {
			defer wg.Done()
			scanner := bufio.NewScanner(r)
			scanner.Buffer(make([]byte, 64*1024), maxLineSize)
			for scanner.Scan() {
				text := scanner.Text()
				if text == "" {
					continue
				}
				s.lines <- Line{Text: text, Stderr: isStderr}
			}
		}(src.r, src.stderr)
	}

	go func() {
		wg.Wait()
		close(s.lines)
	}()

	return s
}

// StartCommand starts cmd with both output pipes captured.
func StartCommand(cmd *exec.Cmd) (*LineStream, error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return NewLineStream(stdout, stderr, cmd.Wait), nil
}

// Next blocks until the next line is available. It returns false once the
// process closed both outputs.
func (s *LineStream) Next() bool {
	line, ok := <-s.lines
	if !ok {
		return false
	}
	s.current = line
	return true
}

// Line returns the line read by the last successful Next.
func (s *LineStream) Line() Line {
	return s.current
}

// Wait drains any unread output and waits for the process to exit. A non-zero
// exit is reported through the exit code, not the error.
func (s *LineStream) Wait() (int, error) {
	s.once.Do(func() {
		for range s.lines {
		}
		if s.wait == nil {
			return
		}
		err := s.wait()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			s.exitCode = exitErr.ExitCode()
			return
		}
		s.waitErr = err
	})
	return s.exitCode, s.waitErr
}
