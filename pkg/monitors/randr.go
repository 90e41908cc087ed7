// Package monitors counts connected displays.
package monitors

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
	pkgerrors "github.com/pkg/errors"
)

// Probe returns the number of connected display outputs.
type Probe interface {
	Connected() (int, error)
}

var _ Probe = &RandRProbe{}

// session is one open X connection.
type session interface {
	connected() (int, error)
	close()
}

// RandRProbe counts outputs reported as connected by the X RandR
// extension. The internal panel counts as one.
//
// The X connection is opened on first use. Any failed query drops it, and
// the next call reconnects.
type RandRProbe struct {
	open    func() (session, error)
	session session
}

func NewRandRProbe() *RandRProbe {
	return &RandRProbe{open: openXSession}
}

func (r *RandRProbe) Connected() (int, error) {
	if r.session == nil {
		s, err := r.open()
		if err != nil {
			return 0, err
		}
		r.session = s
	}

	n, err := r.session.connected()
	if err != nil {
		r.reset()
		return 0, err
	}
	return n, nil
}

func (r *RandRProbe) reset() {
	if r.session != nil {
		r.session.close()
	}
	r.session = nil
}

// Close releases the X connection.
func (r *RandRProbe) Close() {
	r.reset()
}

type xSession struct {
	conn *xgb.Conn
	root xproto.Window
}

func openXSession() (session, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to connect to X")
	}
	if err := randr.Init(conn); err != nil {
		conn.Close()
		return nil, pkgerrors.Wrap(err, "failed to initialize randr")
	}

	return &xSession{
		conn: conn,
		root: xproto.Setup(conn).DefaultScreen(conn).Root,
	}, nil
}

func (s *xSession) connected() (int, error) {
	res, err := randr.GetScreenResources(s.conn, s.root).Reply()
	if err != nil {
		return 0, pkgerrors.Wrap(err, "failed to get screen resources")
	}

	n := 0
	for _, output := range res.Outputs {
		info, err := randr.GetOutputInfo(s.conn, output, res.ConfigTimestamp).Reply()
		if err != nil {
			return 0, pkgerrors.Wrapf(err, "failed to get info of output %d", output)
		}
		if info.Connection == randr.ConnectionConnected {
			n++
		}
	}
	return n, nil
}

func (s *xSession) close() {
	s.conn.Close()
}
