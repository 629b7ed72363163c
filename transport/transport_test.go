package transport_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/connio/api"
	"github.com/momentics/connio/transport"
)

func acceptOne(t *testing.T, ln *transport.Listener) <-chan api.Socket {
	t.Helper()
	ch := make(chan api.Socket, 1)
	go func() {
		sock, err := ln.Accept()
		require.NoError(t, err)
		ch <- sock
	}()
	return ch
}

func dialOne(t *testing.T, addr string) <-chan api.Socket {
	t.Helper()
	ch := make(chan api.Socket, 1)
	connector := transport.NewConnector()
	connector.Connect(context.Background(), "tcp", addr, func(sock api.Socket, err error) {
		require.NoError(t, err)
		ch <- sock
	})
	return ch
}

func TestConnectorAndListenerRoundTrip(t *testing.T) {
	ln, err := transport.NewListener("127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	acceptCh := acceptOne(t, ln)
	dialCh := dialOne(t, ln.Addr().String())

	var serverSide, clientSide api.Socket
	select {
	case serverSide = <-acceptCh:
	case <-time.After(time.Second):
		t.Fatal("Accept never completed")
	}
	select {
	case clientSide = <-dialCh:
	case <-time.After(time.Second):
		t.Fatal("Connect never completed")
	}
	defer serverSide.Close()
	defer clientSide.Close()

	require.NoError(t, serverSide.SetNoDelay(true))
	require.NoError(t, clientSide.SetNoDelay(true))

	recvCh := make(chan []byte, 1)
	recvBuf := make([]byte, 64)
	_, err = serverSide.PostRecv(recvBuf, func(n int, err error) {
		require.NoError(t, err)
		got := make([]byte, n)
		copy(got, recvBuf[:n])
		recvCh <- got
	})
	require.NoError(t, err)

	sendDone := make(chan struct{})
	_, err = clientSide.PostSend([]byte("hello"), func(n int, err error) {
		require.NoError(t, err)
		require.Equal(t, 5, n)
		close(sendDone)
	})
	require.NoError(t, err)

	select {
	case <-sendDone:
	case <-time.After(time.Second):
		t.Fatal("PostSend completion never fired")
	}

	select {
	case got := <-recvCh:
		require.Equal(t, "hello", string(got))
	case <-time.After(time.Second):
		t.Fatal("PostRecv completion never fired")
	}
}

func TestNetSocketPostRecvSeesPeerClose(t *testing.T) {
	ln, err := transport.NewListener("127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	acceptCh := acceptOne(t, ln)
	dialCh := dialOne(t, ln.Addr().String())

	serverSide := <-acceptCh
	clientSide := <-dialCh
	defer serverSide.Close()

	require.NoError(t, clientSide.Close())

	done := make(chan struct{})
	buf := make([]byte, 16)
	_, err = serverSide.PostRecv(buf, func(n int, err error) {
		require.Equal(t, 0, n)
		require.True(t, err == nil || err == io.EOF)
		close(done)
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("PostRecv never observed peer close")
	}
}

func TestNetSocketPostSendAfterCloseFailsSync(t *testing.T) {
	ln, err := transport.NewListener("127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	acceptCh := acceptOne(t, ln)
	dialCh := dialOne(t, ln.Addr().String())

	serverSide := <-acceptCh
	clientSide := <-dialCh
	defer serverSide.Close()

	require.NoError(t, clientSide.Close())

	completedSync, err := clientSide.PostSend([]byte("x"), func(int, error) {
		t.Fatal("onComplete should not fire for a post against a closed socket")
	})
	require.True(t, completedSync)
	require.ErrorIs(t, err, api.ErrTransportClosed)
}
