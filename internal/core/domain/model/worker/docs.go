// Package worker models the user directory entries the workflow depends on:
// a Worker with a Role from a closed enum and the departments the person works in.
//
// Roles map to a fixed Capability set. Response shaping and command authorization
// ask Role.Can instead of comparing role names, so adding a role means adding one
// entry to the capability table.
package worker
