// Package listsync keeps lists in step with the follow graph of an account.
//
// A run authenticates, fetches the accounts the user follows once, and then
// reconciles each configured target list against it:
//
//   - following: the list mirrors every followed account.
//   - mutuals: the list mirrors followed accounts that also follow back.
//
// Membership changes are applied independently. A failed change is logged
// and reported but never stops the remaining changes or targets; the run
// then ends with ErrIncomplete. Failing to fetch the follow graph or a list
// aborts the run before anything is changed for that target.
//
// Reports of every target can be forwarded to sinks: Journal writes them to
// a SQL database and Archive uploads them as JSON to an object store.
package listsync
