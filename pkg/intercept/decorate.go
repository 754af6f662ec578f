package intercept

import "context"

// mustFunc panics at decoration time when a decorator is given a nil function.
func mustFunc(isNil bool, op string) {
	if isNil {
		panic("intercept: nil function for operation " + op)
	}
}

// Func wraps fn so that every call is gated and intercepted under the name op.
func Func[T any](ic *Interceptor, op string, fn func(context.Context) (T, error)) func(context.Context) (T, error) {
	mustFunc(fn == nil, op)
	return func(ctx context.Context) (T, error) {
		if !ic.Routes(op) {
			return fn(ctx)
		}
		return Intercept(ctx, ic, op, nil, func() (T, error) {
			return fn(ctx)
		})
	}
}

// Func1 wraps a one-argument fn. The argument is reported in the ENTRY event.
func Func1[A, T any](ic *Interceptor, op string, fn func(context.Context, A) (T, error)) func(context.Context, A) (T, error) {
	mustFunc(fn == nil, op)
	return func(ctx context.Context, a A) (T, error) {
		if !ic.Routes(op) {
			return fn(ctx, a)
		}
		return Intercept(ctx, ic, op, []any{a}, func() (T, error) {
			return fn(ctx, a)
		})
	}
}

// Func2 wraps a two-argument fn. Both arguments are reported in the ENTRY event.
func Func2[A, B, T any](ic *Interceptor, op string, fn func(context.Context, A, B) (T, error)) func(context.Context, A, B) (T, error) {
	mustFunc(fn == nil, op)
	return func(ctx context.Context, a A, b B) (T, error) {
		if !ic.Routes(op) {
			return fn(ctx, a, b)
		}
		return Intercept(ctx, ic, op, []any{a, b}, func() (T, error) {
			return fn(ctx, a, b)
		})
	}
}

// Proc1 wraps a one-argument fn that returns only an error.
func Proc1[A any](ic *Interceptor, op string, fn func(context.Context, A) error) func(context.Context, A) error {
	mustFunc(fn == nil, op)
	return func(ctx context.Context, a A) error {
		if !ic.Routes(op) {
			return fn(ctx, a)
		}
		return Do(ctx, ic, op, []any{a}, func() error {
			return fn(ctx, a)
		})
	}
}
