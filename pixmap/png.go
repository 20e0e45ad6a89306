package pixmap

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// writeChunk frames one PNG chunk: 4-byte big-endian payload length,
// 4-byte type tag, payload, then CRC-32 (IEEE) over type‖payload.
// All container framing goes through here so the byte layout lives in
// exactly one place.
func writeChunk(buf *bytes.Buffer, typ string, payload []byte) {
	var word [4]byte
	binary.BigEndian.PutUint32(word[:], uint32(len(payload)))
	buf.Write(word[:])
	buf.WriteString(typ)
	buf.Write(payload)
	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(payload)
	binary.BigEndian.PutUint32(word[:], crc.Sum32())
	buf.Write(word[:])
}

// EncodePNG serializes the canvas as an 8-bit RGBA truecolor PNG:
// signature, IHDR, a single zlib-compressed IDAT of filter-0 scanlines,
// and an empty IEND. Scanlines stay unfiltered; the icons are a few
// hundred pixels and filtering buys nothing at that size. The output is
// a spec-conformant PNG that any standard decoder accepts.
func EncodePNG(c *Canvas) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(c.w))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(c.h))
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // color type: truecolor with alpha
	// compression method, filter method, interlace: all zero

	raw := make([]byte, 0, c.h*(1+c.w*4))
	for y := 0; y < c.h; y++ {
		raw = append(raw, 0) // filter type None
		for x := 0; x < c.w; x++ {
			p := c.pix[y*c.w+x]
			raw = append(raw, p.R, p.G, p.B, p.A)
		}
	}

	var idat bytes.Buffer
	zw, err := zlib.NewWriterLevel(&idat, zlib.BestCompression)
	if err != nil {
		panic("pixmap: " + err.Error())
	}
	if _, err := zw.Write(raw); err != nil {
		panic("pixmap: " + err.Error())
	}
	if err := zw.Close(); err != nil {
		panic("pixmap: " + err.Error())
	}

	var out bytes.Buffer
	out.Write(pngSignature)
	writeChunk(&out, "IHDR", ihdr)
	writeChunk(&out, "IDAT", idat.Bytes())
	writeChunk(&out, "IEND", nil)
	return out.Bytes()
}

// EncodeBase64PNG returns the PNG bytes as standard base64, ready to embed
// in a SwiftBar image= parameter.
func EncodeBase64PNG(c *Canvas) string {
	return base64.StdEncoding.EncodeToString(EncodePNG(c))
}
