// File: zip.go
// Role: shared ZIP plumbing. readZipFile and writeZipFile register
// klauspost/compress's Deflate codec on the zip reader or writer they
// are given, so every .tr/.tm archive this package writes or reads uses
// it.
package envelope

import (
	"archive/zip"
	"io"

	"github.com/klauspost/compress/flate"
)

func deflateCompressor(w io.Writer) (io.WriteCloser, error) {
	return flate.NewWriter(w, flate.DefaultCompression)
}

func deflateDecompressor(r io.Reader) io.ReadCloser {
	return flate.NewReader(r)
}

// readZipFile returns the uncompressed bytes of name inside the
// archive at r, or an error if name is not present.
func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	r.RegisterDecompressor(zip.Deflate, deflateDecompressor)
	f, err := r.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// writeZipFile writes data to name inside w using Deflate compression.
func writeZipFile(w *zip.Writer, name string, data []byte) error {
	w.RegisterCompressor(zip.Deflate, deflateCompressor)
	entry, err := w.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return err
	}
	_, err = entry.Write(data)
	return err
}
