// Package foundation provides small generic building blocks shared across
// the driver.
package foundation

// Option represents a value that may be absent. It replaces nullable
// pointers where "not set" and "set to the zero value" must stay distinct,
// e.g. captured subprocess output ("not captured" vs "captured empty").
type Option[T any] struct {
	value   T
	present bool
}

// Some wraps a present value.
func Some[T any](value T) Option[T] {
	return Option[T]{value: value, present: true}
}

// None returns an absent Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// IsSome reports whether a value is present.
func (o Option[T]) IsSome() bool { return o.present }

// IsNone reports whether the Option is absent.
func (o Option[T]) IsNone() bool { return !o.present }

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) { return o.value, o.present }

// OrZero returns the value if present, otherwise the zero value of T.
func (o Option[T]) OrZero() T { return o.value }

// OrElse returns the value if present, otherwise the fallback.
func (o Option[T]) OrElse(fallback T) T {
	if o.present {
		return o.value
	}
	return fallback
}
