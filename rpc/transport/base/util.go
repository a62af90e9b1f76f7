package base

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/ValentinKolb/dPB/rpc/common"
)

// headerSize is the size of a frame header (shardID + requestID + length)
const headerSize = 20

// maxFrameSize is the largest payload accepted by readFrame
const maxFrameSize = 64 << 20 // 64 MB

// writeFrame writes a frame to the connection with the format:
// - 8 bytes: shardId (uint64, big endian)
// - 8 bytes: requestID (uint64, big endian)
// - 4 bytes: data length (uint32, big endian)
// - N bytes: data payload
func writeFrame(conn net.Conn, shardID uint64, requestID uint64, data []byte) error {
	header := make([]byte, headerSize)
	binary.BigEndian.PutUint64(header[:8], shardID)
	binary.BigEndian.PutUint64(header[8:16], requestID)
	binary.BigEndian.PutUint32(header[16:20], uint32(len(data)))

	b := net.Buffers{header, data}
	_, err := b.WriteTo(conn)
	return err
}

// readFrame reads a frame from the connection using the provided buffer.
// If the buffer is too small, it will allocate a new temporary buffer for the data.
// The returned data aliases buf when it fits.
func readFrame(conn net.Conn, buf []byte) (uint64, uint64, []byte, error) {
	// Check if buffer is large enough for header
	if len(buf) < headerSize {
		buf = make([]byte, headerSize)
	}

	// Read header
	if _, err := io.ReadFull(conn, buf[:headerSize]); err != nil {
		return 0, 0, nil, err
	}

	// Parse header
	shardID := binary.BigEndian.Uint64(buf[:8])
	requestID := binary.BigEndian.Uint64(buf[8:16])
	contentLength := binary.BigEndian.Uint32(buf[16:20])

	// If no data, return empty slice
	if contentLength == 0 {
		return shardID, requestID, []byte{}, nil
	}

	if contentLength > maxFrameSize {
		return shardID, requestID, nil, fmt.Errorf("frame too large: %d bytes (max %d)", contentLength, maxFrameSize)
	}

	// Check if buffer is large enough for data
	if len(buf) < int(contentLength) {
		buf = make([]byte, contentLength)
	}

	// Read data
	if _, err := io.ReadFull(conn, buf[:contentLength]); err != nil {
		return 0, 0, nil, err
	}

	return shardID, requestID, buf[:contentLength], nil
}

// ApplySocketConf applies buffer sizes and TCP options to a connection.
// TCP options are skipped for non TCP connections.
func ApplySocketConf(conn net.Conn, socket common.SocketConf, tcp common.TCPConf) error {
	type bufferedConn interface {
		SetReadBuffer(bytes int) error
		SetWriteBuffer(bytes int) error
	}

	if bc, ok := conn.(bufferedConn); ok {
		if socket.WriteBufferSize > 0 {
			if err := bc.SetWriteBuffer(socket.WriteBufferSize); err != nil {
				return err
			}
		}
		if socket.ReadBufferSize > 0 {
			if err := bc.SetReadBuffer(socket.ReadBufferSize); err != nil {
				return err
			}
		}
	}

	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}

	// Disable Nagle's algorithm if configured
	if err := tcpConn.SetNoDelay(tcp.TCPNoDelay); err != nil {
		return err
	}

	if tcp.TCPKeepAliveSec > 0 {
		if err := tcpConn.SetKeepAlive(true); err != nil {
			return err
		}
		if err := tcpConn.SetKeepAlivePeriod(time.Duration(tcp.TCPKeepAliveSec) * time.Second); err != nil {
			return err
		}
	}

	if tcp.TCPLingerSec >= 0 {
		if err := tcpConn.SetLinger(tcp.TCPLingerSec); err != nil {
			return err
		}
	}

	return nil
}
