package storage

import (
	"context"
	stderrors "errors"
	"reflect"
	"testing"
)

func TestCloseAll(t *testing.T) {
	var order []string
	mk := func(name string, enabled bool, err error) closer {
		return closer{
			name:    name,
			enabled: func() bool { return enabled },
			close: func(context.Context) error {
				order = append(order, name)
				return err
			},
		}
	}

	closed := closeAll(context.Background(), []closer{
		mk("rabbitmq", true, nil),
		mk("redis", false, nil),
		mk("database", true, stderrors.New("busy")),
	})

	if want := []string{"rabbitmq", "database"}; !reflect.DeepEqual(order, want) {
		t.Fatalf("close order = %v, want %v", order, want)
	}
	if want := []string{"rabbitmq"}; !reflect.DeepEqual(closed, want) {
		t.Fatalf("closed = %v, want %v", closed, want)
	}
}

func TestCloseWithNothingInitialized(t *testing.T) {
	if got := closeAll(context.Background(), defaultClosers()); len(got) != 0 {
		t.Fatalf("closed = %v, want none", got)
	}
	Close()
}
