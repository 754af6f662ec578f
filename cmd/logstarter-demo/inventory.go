package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/logstarter/logstarter-go/pkg/intercept"
)

// Operation names registered with the interceptor.
const (
	OpLookup  = "inventory.Lookup"
	OpReserve = "inventory.Reserve"
	OpRestock = "inventory.Restock"
	OpAudit   = "inventory.Audit"
)

var (
	ErrUnknownSKU        = errors.New("unknown sku")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Inventory is the sample service whose operations the demo instruments.
type Inventory struct {
	mu    sync.Mutex
	stock map[string]int
}

// NewInventory creates an inventory with a few seeded items.
func NewInventory() *Inventory {
	return &Inventory{stock: map[string]int{
		"apple":  12,
		"banana": 3,
		"cherry": 0,
	}}
}

// Lookup returns the quantity in stock for sku.
func (inv *Inventory) Lookup(_ context.Context, sku string) (int, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	qty, ok := inv.stock[sku]
	if !ok {
		return 0, fmt.Errorf("lookup %q: %w", sku, ErrUnknownSKU)
	}
	return qty, nil
}

// Reserve takes qty items of sku out of stock and returns a reservation ID.
func (inv *Inventory) Reserve(_ context.Context, sku string, qty int) (string, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	have, ok := inv.stock[sku]
	if !ok {
		return "", fmt.Errorf("reserve %q: %w", sku, ErrUnknownSKU)
	}
	if qty <= 0 || qty > have {
		return "", fmt.Errorf("reserve %d of %q (have %d): %w", qty, sku, have, ErrInsufficientStock)
	}
	inv.stock[sku] = have - qty
	return uuid.NewString(), nil
}

// Restock sets sku back to a full shelf of 10 items.
func (inv *Inventory) Restock(_ context.Context, sku string) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.stock[sku] = 10
	return nil
}

// Audit walks every item slowly. It honors ctx cancellation.
func (inv *Inventory) Audit(ctx context.Context, perItem time.Duration) (string, error) {
	inv.mu.Lock()
	skus := make([]string, 0, len(inv.stock))
	for sku := range inv.stock {
		skus = append(skus, sku)
	}
	inv.mu.Unlock()
	sort.Strings(skus)

	for range skus {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(perItem):
		}
	}
	return strings.Join(skus, ","), nil
}

// instrumentedInventory exposes Inventory operations wrapped by an interceptor.
type instrumentedInventory struct {
	lookup  func(context.Context, string) (int, error)
	reserve func(context.Context, string, int) (string, error)
	restock func(context.Context, string) error
	audit   func(context.Context, time.Duration) (string, error)
}

func instrument(ic *intercept.Interceptor, inv *Inventory) *instrumentedInventory {
	return &instrumentedInventory{
		lookup:  intercept.Func1(ic, OpLookup, inv.Lookup),
		reserve: intercept.Func2(ic, OpReserve, inv.Reserve),
		restock: intercept.Proc1(ic, OpRestock, inv.Restock),
		audit:   intercept.Func1(ic, OpAudit, inv.Audit),
	}
}

// Commands returns the command names understood by Run.
func (ii *instrumentedInventory) Commands() []string {
	return []string{"lookup <sku>", "reserve <sku> <qty>", "restock <sku>", "audit <ms-per-item> [timeout-ms]"}
}

// Run executes one instrumented operation from textual arguments and
// renders its result.
func (ii *instrumentedInventory) Run(ctx context.Context, cmd string, args []string) (string, error) {
	switch cmd {
	case "lookup":
		if len(args) != 1 {
			return "", errors.New("usage: lookup <sku>")
		}
		qty, err := ii.lookup(ctx, args[0])
		if err != nil {
			return "", err
		}
		return strconv.Itoa(qty), nil

	case "reserve":
		if len(args) != 2 {
			return "", errors.New("usage: reserve <sku> <qty>")
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return "", fmt.Errorf("invalid quantity %q", args[1])
		}
		return ii.reserve(ctx, args[0], qty)

	case "restock":
		if len(args) != 1 {
			return "", errors.New("usage: restock <sku>")
		}
		return "ok", ii.restock(ctx, args[0])

	case "audit":
		if len(args) < 1 || len(args) > 2 {
			return "", errors.New("usage: audit <ms-per-item> [timeout-ms]")
		}
		perItem, err := strconv.Atoi(args[0])
		if err != nil {
			return "", fmt.Errorf("invalid duration %q", args[0])
		}
		if len(args) == 2 {
			timeout, err := strconv.Atoi(args[1])
			if err != nil {
				return "", fmt.Errorf("invalid timeout %q", args[1])
			}
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Millisecond)
			defer cancel()
		}
		return ii.audit(ctx, time.Duration(perItem)*time.Millisecond)

	default:
		return "", fmt.Errorf("unknown operation: %s", cmd)
	}
}
