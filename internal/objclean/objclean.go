// Public domain.

// Package objclean reduces a Wavefront .obj file to the subset read by the
// SPICE mkdsk program: vertex records and vertex-only face records.
//
// A .obj file can carry texture coordinates, normals, groups, materials and
// so on.  mkdsk reads only "v" and "f" lines, and in face lines only the
// vertex index of each v/vt/vn triple.
package objclean

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Stats counts records seen by Clean.
type Stats struct {
	Vertices    int // v lines written
	Faces       int // f lines written
	NonTriangle int // f lines with other than three vertices
	Dropped     int // lines not written
}

// Clean copies vertex and face records from r to w.
//
// A line beginning with "v " is copied unchanged.  A line whose first field
// is "f" is written as "f" followed by the vertex index of each remaining
// field, that is the part of the field before any '/'.  All other lines are
// dropped.  Output lines end in "\n" regardless of the input line ending.
func Clean(w io.Writer, r io.Reader) (st Stats, err error) {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	for {
		line, rErr := br.ReadString('\n')
		if len(line) > 0 {
			if err = st.line(bw, trimEOL(line)); err != nil {
				return
			}
		}
		if rErr == io.EOF {
			break
		}
		if rErr != nil {
			return st, rErr
		}
	}
	return st, bw.Flush()
}

func (st *Stats) line(bw *bufio.Writer, line string) error {
	if strings.HasPrefix(line, "v ") {
		st.Vertices++
		_, err := bw.WriteString(line + "\n")
		return err
	}
	f := strings.Fields(line)
	if len(f) == 0 || f[0] != "f" {
		st.Dropped++
		return nil
	}
	st.Faces++
	if len(f) != 4 {
		st.NonTriangle++
	}
	var b strings.Builder
	b.WriteByte('f')
	for _, ref := range f[1:] {
		b.WriteByte(' ')
		b.WriteString(VertexIndex(ref))
	}
	b.WriteByte('\n')
	_, err := bw.WriteString(b.String())
	return err
}

// VertexIndex returns the vertex part of a face reference such as "3/7/2",
// "3//2" or "3".
func VertexIndex(ref string) string {
	if i := strings.IndexByte(ref, '/'); i >= 0 {
		return ref[:i]
	}
	return ref
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// CleanFile cleans file src into a new file dst.
func CleanFile(dst, src string) (Stats, error) {
	in, err := os.Open(src)
	if err != nil {
		return Stats{}, err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return Stats{}, err
	}
	st, err := Clean(out, in)
	if cErr := out.Close(); err == nil {
		err = cErr
	}
	return st, err
}
