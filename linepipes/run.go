package linepipes

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
)

// global flag controlling debug output
var Verbose = false

// Run starts prog in dir (the current directory when empty) and streams its combined output line by line. The
// errors channel receives the exit error, if any, once the output is exhausted.
func Run(dir string, prog string, args ...string) (lines chan string, errors chan error) {
	lines = make(chan string)
	errors = make(chan error, 1)
	if Verbose {
		log.Println("Executing:", prog, strings.Join(args, " "))
	}
	cmd := exec.Command(prog, args...)
	cmd.Dir = dir
	pipeReader, pipeWriter, err := os.Pipe()
	if err != nil {
		errors <- err
		close(lines)
		close(errors)
		return lines, errors
	}
	cmd.Stdout = pipeWriter
	cmd.Stderr = pipeWriter
	if err := cmd.Start(); err != nil {
		pipeReader.Close()
		pipeWriter.Close()
		errors <- err
		close(lines)
		close(errors)
		return lines, errors
	}
	go func() {
		defer close(lines)
		defer pipeReader.Close()
		s := bufio.NewScanner(pipeReader)
		for s.Scan() {
			lines <- s.Text()
		}
	}()
	go func() {
		defer close(errors)
		err := cmd.Wait()
		pipeWriter.Close()
		if err != nil {
			errors <- err
		}
	}()
	return lines, errors
}

// Single expects the command to print exactly one line and returns it.
func Single(lines <-chan string, errors <-chan error) (string, error) {
	var s string
	var count int
	for line := range lines {
		s = line
		count += 1
	}
	if err, _ := <-errors; err != nil {
		if s != "" {
			return s, fmt.Errorf("%s: %s", err, s)
		}
		return s, err
	}
	if count != 1 {
		return s, fmt.Errorf("Expected a single line, got %d", count)
	}
	return s, nil
}
