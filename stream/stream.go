package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Slice, et al., taken from:
// https://betterprogramming.pub/writing-a-stream-api-in-go-afbc3c4350e2

func Slice[T any](ctx context.Context, in []T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for _, element := range in {
			select {
			case <-ctx.Done():
				return
			case out <- element:
			}
		}
	}()
	return out
}

// NDJSON decodes a stream of JSON values from in.
// The error channel receives at most one error, then closes;
// a clean EOF closes it without sending.
func NDJSON[T any](ctx context.Context, in io.Reader) (<-chan T, <-chan error) {
	out := make(chan T)
	errs := make(chan error, 1)
	go func() {
		defer close(errs)
		defer close(out)
		dec := json.NewDecoder(in)
		for n := 1; ; n++ {
			var element T
			if err := dec.Decode(&element); err != nil {
				if errors.Is(err, io.EOF) {
					return
				}
				errs <- fmt.Errorf("decode message %d: %w", n, err)
				return
			}
			select {
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			case out <- element:
			}
		}
	}()
	return out, errs
}

func Filter[T any](ctx context.Context, predicate func(T) bool, in <-chan T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for element := range in {
			if predicate(element) {
				select {
				case <-ctx.Done():
					return
				case out <- element:
				}
			}
		}
	}()
	return out
}

func Transform[I any, O any](ctx context.Context, transformer func(I) O, in <-chan I) <-chan O {
	out := make(chan O)
	go func() {
		defer close(out)
		for element := range in {
			select {
			case <-ctx.Done():
				return
			case out <- transformer(element):
			}
		}
	}()
	return out
}

func Collect[T any](ctx context.Context, in <-chan T) []T {
	out := make([]T, 0)
	for element := range in {
		select {
		case <-ctx.Done():
			return out
		default:
			out = append(out, element)
		}
	}
	return out
}
