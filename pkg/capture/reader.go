package capture

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// ErrSourceUnavailable is returned when a capture file cannot be opened or
// read. The underlying OS error is wrapped alongside it.
var ErrSourceUnavailable = errors.New("capture: source unavailable")

// ErrMalformedRow is returned by ParseRow for rows that are not samples.
var ErrMalformedRow = errors.New("capture: malformed row")

// maxLineLength bounds a single line; sniffer rows are ~30 bytes. Longer
// lines are serial garbage and are dropped.
const maxLineLength = 64 * 1024

var (
	framesCapturedRe = regexp.MustCompile(`^Frames captured\s*:\s*(\d+)`)
	ringDroppedRe    = regexp.MustCompile(`^Ring dropped\s*:\s*(\d+)`)
)

// Reader parses PARALAX sniffer CSV captures into a Capture.
type Reader struct {
	parser *participle.Parser[Row]
}

// NewReader creates a new capture reader instance
func NewReader() (*Reader, error) {
	parser, err := participle.Build[Row](
		participle.Lexer(RowLexer),
		participle.Elide("Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build row parser: %w", err)
	}

	return &Reader{parser: parser}, nil
}

// Read parses a capture from r. Comment and header lines are skipped,
// malformed rows are dropped and counted in Meta.Dropped. Lines longer than
// maxLineLength are dropped too. Only I/O failures are returned as errors.
func (r *Reader) Read(src io.Reader) (*Capture, error) {
	c := &Capture{}
	br := bufio.NewReaderSize(src, maxLineLength)

	for {
		raw, tooLong, err := readLine(br)
		if tooLong {
			c.Meta.Dropped++
		} else {
			r.consume(string(raw), c)
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
	}

	return c, nil
}

// consume handles one line of input.
func (r *Reader) consume(line string, c *Capture) {
	line = unquoteFields(strings.TrimSpace(line))
	if line == "" {
		return
	}

	if isComment(line) {
		c.Meta.Comments++
		return
	}

	if r.harvestFirmwareStats(line, &c.Meta) {
		return
	}

	sample, err := r.ParseRow(line)
	if err != nil {
		c.Meta.Dropped++
		return
	}

	c.Samples = append(c.Samples, sample)
	c.Meta.Rows++
}

// readLine returns the next line including its newline. When the line does
// not fit the buffer the rest of it is discarded and tooLong is set.
func readLine(br *bufio.Reader) (line []byte, tooLong bool, err error) {
	line, err = br.ReadSlice('\n')
	if err != bufio.ErrBufferFull {
		return line, false, err
	}
	for err == bufio.ErrBufferFull {
		_, err = br.ReadSlice('\n')
	}
	return nil, true, err
}

// ReadString parses a capture held in memory.
func (r *Reader) ReadString(input string) (*Capture, error) {
	return r.Read(strings.NewReader(input))
}

// ReadFile parses the capture file at path.
func (r *Reader) ReadFile(path string) (*Capture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer file.Close()

	return r.Read(file)
}

// ParseRow parses a single data row into a Sample.
func (r *Reader) ParseRow(line string) (Sample, error) {
	row, err := r.parser.ParseString("", unquoteFields(line))
	if err != nil {
		return Sample{}, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}

	ts, err := strconv.ParseUint(row.Timestamp, 10, 64)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: timestamp %q", ErrMalformedRow, row.Timestamp)
	}

	digits := strings.TrimPrefix(strings.TrimPrefix(row.Data, "0x"), "0X")
	data, err := strconv.ParseUint(digits, 16, 8)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: data %q", ErrMalformedRow, row.Data)
	}

	return Sample{Timestamp: ts, Data: uint8(data)}, nil
}

// harvestFirmwareStats records the sniffer's periodic statistics lines.
func (r *Reader) harvestFirmwareStats(line string, meta *Meta) bool {
	if m := framesCapturedRe.FindStringSubmatch(line); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			meta.FirmwareStats = true
			meta.FramesReported = n
			return true
		}
	}
	if m := ringDroppedRe.FindStringSubmatch(line); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			meta.FirmwareStats = true
			meta.RingDropped = n
			return true
		}
	}
	return false
}

// unquoteFields removes double quotes enclosing individual fields, so
// "1234","7F" reads the same as 1234,7F.
func unquoteFields(line string) string {
	if !strings.Contains(line, `"`) {
		return line
	}
	fields := strings.Split(line, ",")
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if len(f) >= 2 && f[0] == '"' && f[len(f)-1] == '"' {
			f = f[1 : len(f)-1]
		}
		fields[i] = f
	}
	return strings.Join(fields, ",")
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "#") ||
		strings.HasPrefix(line, "TIMESTAMP") ||
		strings.HasPrefix(line, "t_us")
}
