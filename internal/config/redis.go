package config

// Redis backs the distributed token-bucket rate limiter that fronts the
// reservation endpoints.  Connection parameters come from environment
// variables; when the server cannot be reached at startup the
// constructor returns nil and callers degrade to a pass-through
// limiter.

import (
    "context"
    "crypto/tls"
    "os"
    "time"

    "github.com/redis/go-redis/v9"
)

// NewRedisClient builds a client from the environment:
//   REDIS_HOST / REDIS_PORT - hostname and port of the server
//   REDIS_ADDR              - host:port shorthand (host/port win when both are set)
//   REDIS_PASSWORD          - optional password
//   REDIS_DB                - database number (default 0)
//   REDIS_TLS               - enable TLS when truthy
// The connection is verified with a short ping; nil is returned on
// failure.
func NewRedisClient() *redis.Client {
    addr := envStr("REDIS_ADDR", "localhost:6379")
    if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
        addr = host + ":" + port
    }

    var tlsConf *tls.Config
    if envBool("REDIS_TLS", false) {
        tlsConf = &tls.Config{InsecureSkipVerify: true}
    }

    client := redis.NewClient(&redis.Options{
        Addr:      addr,
        Password:  os.Getenv("REDIS_PASSWORD"),
        DB:        envInt("REDIS_DB", 0),
        TLSConfig: tlsConf,
    })

    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        return nil
    }
    return client
}
