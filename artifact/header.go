// Package artifact writes generated files and recognises the ones the
// generator owns.
package artifact

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/lexandro/schemas-to-ts/failure"
)

// HeaderComment is the first line of every generator-owned file.
const HeaderComment = "// Interface automatically generated by schemas-to-ts"

// Header is what the compiler prepends to each artifact.
const Header = HeaderComment + "\n\n"

// IndexHeaderComment is the first line of every generated index file. It
// differs from HeaderComment so stale collection leaves index files alone.
const IndexHeaderComment = "// Index automatically generated by schemas-to-ts"

// IndexHeader starts every generated index file.
const IndexHeader = IndexHeaderComment + "\n\n"

var lineBreaks = strings.NewReplacer("\r\n", "", "\r", "", "\n", "")

// CompareIgnoringLineBreaks compares two strings with every line break removed.
func CompareIgnoringLineBreaks(a string, b string) bool {
	return lineBreaks.Replace(a) == lineBreaks.Replace(b)
}

// HasHeader reports whether content starts with the ownership marker line.
func HasHeader(content string) bool {
	firstLine, _, _ := strings.Cut(content, "\n")
	return CompareIgnoringLineBreaks(firstLine, HeaderComment)
}

// FirstLine reads a file up to and including its first line feed.
func FirstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", failure.IO("open", path, err)
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", failure.IO("read", path, err)
	}
	return line, nil
}

// IsGenerated reports whether the file at path carries the ownership marker.
func IsGenerated(path string) (bool, error) {
	return firstLineIs(path, HeaderComment)
}

// IsGeneratedIndex reports whether the file at path carries the index marker.
func IsGeneratedIndex(path string) (bool, error) {
	return firstLineIs(path, IndexHeaderComment)
}

func firstLineIs(path string, marker string) (bool, error) {
	line, err := FirstLine(path)
	if err != nil {
		return false, err
	}
	return CompareIgnoringLineBreaks(line, marker), nil
}
