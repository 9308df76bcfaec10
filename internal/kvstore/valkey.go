package kvstore

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/valkey-io/valkey-go"

	"reposter/internal/services"
)

const valkeyPrefix = "reposter:"

// Valkey stores records as plain string values on a Valkey or Redis server.
type Valkey struct {
	client valkey.Client
	closed atomic.Bool
}

// OpenValkey connects to addr and verifies the connection with PING.
func OpenValkey(ctx context.Context, addr, password string) (*Valkey, error) {
	if addr == "" {
		return nil, services.Wrap(services.ErrConfiguration, "kvstore", "open valkey", "valkey_addr is empty", nil)
	}
	opts := valkey.ClientOption{
		InitAddress: []string{addr},
	}
	if password != "" {
		opts.Password = password
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, services.Wrap(services.ErrExternal, "kvstore", "ping valkey", addr, err)
	}
	return NewValkey(client), nil
}

// NewValkey wraps an existing client. The store owns the client after this call.
func NewValkey(client valkey.Client) *Valkey {
	return &Valkey{client: client}
}

func valkeyKey(key Key) string {
	return valkeyPrefix + key.String()
}

func (v *Valkey) Get(ctx context.Context, key Key, dst any) (bool, error) {
	if v.closed.Load() {
		return false, ErrClosed
	}
	data, err := v.client.Do(ctx, v.client.B().Get().Key(valkeyKey(key)).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return false, nil
		}
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	return true, decodeValue(key, data, dst)
}

func (v *Valkey) Set(ctx context.Context, key Key, value any) error {
	if v.closed.Load() {
		return ErrClosed
	}
	data, err := encodeValue(key, value)
	if err != nil {
		return err
	}
	if err := v.client.Do(ctx, v.client.B().Set().Key(valkeyKey(key)).Value(string(data)).Build()).Error(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (v *Valkey) Delete(ctx context.Context, key Key) error {
	if v.closed.Load() {
		return ErrClosed
	}
	if err := v.client.Do(ctx, v.client.B().Del().Key(valkeyKey(key)).Build()).Error(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (v *Valkey) Close() error {
	if v.closed.CompareAndSwap(false, true) {
		v.client.Close()
	}
	return nil
}
