// Package twitter is a thin client for the account and list endpoints of the
// X (Twitter) v2 API.
//
// Requests are signed with OAuth 1.0a user context via dghubble/oauth1 and
// every call is wrapped in the retry policy from core/retry, so rate limiting
// (429) and server errors are retried with backoff while honouring the
// x-rate-limit-reset header.
//
// # Operations
//
//   - Me / UserByUsername: account lookup, Me is the authentication check.
//   - FollowingIDs / FollowerIDs: paginated follow graph.
//   - ListMemberIDs / AddListMember / RemoveListMember: list membership.
//   - CreateList: one-off list creation.
//   - PINFlow: out-of-band OAuth flow used by the `auth` command.
//
// # Errors
//
// Non-2xx responses become *APIError. A 401 matches ErrUnauthorized.
//
// # Usage
//
//	client, err := twitter.NewClient(cfg.Twitter, creds, cfg.Retry, log)
//	me, err := client.Me(ctx)
//	ids, err := client.FollowingIDs(ctx, me.ID)
package twitter
