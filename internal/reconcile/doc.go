// Package reconcile wraps an external package manager so that environment
// changes it persists become visible to the calling process.
//
// A package manager that installs a tool usually appends the tool's directory
// to PATH in the registry or an environment file. The running process never
// sees that change, because a child cannot modify its parent's environment.
// Reconciler closes the gap:
//
//  1. When the first argument is the install trigger, read the persisted value
//     of every tracked variable (the "before" snapshot).
//  2. Run the command with its arguments untouched.
//  3. Read the persisted values again (the "after" snapshot) and append to the
//     live value each entry that is new relative to both the before snapshot
//     and the live value.
//
// Entries are never removed or reordered. A failed command skips step 3, and
// a failure while computing or applying the merge is logged and ignored:
// updating PATH is a convenience, not part of the command's outcome.
package reconcile
