// Package reconcile computes and applies list membership changes.
//
// The package is split into two steps that mirror a single sync run:
//
//  1. Reconcile: a pure diff of the current list membership against the desired
//     membership (the follow set, or the mutuals set). It returns a Delta with
//     sorted ToAdd and ToRemove identifiers.
//
//  2. Apply: issues one mutation per identifier through a Mutator. Individual
//     failures are collected in the ApplyResult and never abort the pass.
//
// # Invariants
//
// After a fully successful Apply the list is set-equal to the desired set, so
// reconciling again yields an empty Delta. Nothing is cached between runs.
//
// # Usage
//
//	delta := reconcile.Reconcile(reconcile.SetOf(members), reconcile.SetOf(following))
//	if delta.IsEmpty() {
//	    return nil
//	}
//	result := reconcile.Apply(ctx, mutator, delta, reconcile.ApplyOptions{Concurrency: 4})
//	log.Info("applied", zap.Int("failed", result.Failed()))
package reconcile
