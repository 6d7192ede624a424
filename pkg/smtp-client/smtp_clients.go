package smtp_client

import (
	"crypto/tls"
	"errors"
	"log/slog"
	"net/smtp"
	"strconv"
	"sync"
	"time"

	"github.com/knadh/smtppool"
)

type serverPool struct {
	server SmtpServer
	pool   *smtppool.Pool
}

type SmtpClients struct {
	servers        SmtpServerList
	connectionPool []serverPool
	counter        uint64
	mu             sync.Mutex
}

func NewSmtpClients(config SmtpServerList) (*SmtpClients, error) {
	pools := initConnectionPool(config)
	if len(pools) < 1 {
		return nil, errors.New("no smtp server connection in the pool")
	}

	sc := &SmtpClients{
		servers:        config,
		counter:        0,
		connectionPool: pools,
	}
	return sc, nil
}

func (sc *SmtpClients) Close() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	for _, p := range sc.connectionPool {
		p.pool.Close()
	}
}

func initConnectionPool(serverList SmtpServerList) []serverPool {
	connectionPools := []serverPool{}
	for _, server := range serverList.Servers {
		pool, err := connectToPool(server)
		if err != nil {
			slog.Error("error setting up connection pool", slog.String("error", err.Error()), slog.String("server", server.Address()))
			continue
		}
		connectionPools = append(connectionPools, serverPool{server: server, pool: pool})
	}
	return connectionPools
}

func connectToPool(server SmtpServer) (*smtppool.Pool, error) {
	auth := smtp.PlainAuth(
		"",
		server.AuthData.Username,
		server.AuthData.Password,
		server.Host,
	)
	if server.AuthData.Username == "" && server.AuthData.Password == "" {
		auth = nil
	}

	var tlsOpts *tls.Config
	if !server.NoTLS {
		tlsOpts = &tls.Config{
			InsecureSkipVerify: server.InsecureSkipVerify,
			ServerName:         server.Host,
		}
	}
	port, err := strconv.Atoi(server.Port)
	if err != nil {
		return nil, err
	}

	connections := server.Connections
	if connections < 1 {
		connections = 1
	}

	return smtppool.New(smtppool.Opt{
		Host:            server.Host,
		Port:            port,
		MaxConns:        connections,
		IdleTimeout:     time.Duration(server.SendTimeout) * time.Second,
		PoolWaitTimeout: time.Duration(server.SendTimeout) * time.Second,
		TLSConfig:       tlsOpts,
		Auth:            auth,
	})
}
