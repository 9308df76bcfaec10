// Package preflight provides readiness checks for the directories and the
// key-value store reposter depends on.
//
// These checks run in two contexts:
//   - The diagnostics directory sink calls CheckDirectoryAccess before it
//     writes the first artifact of a run.
//   - The CLI "reposter check" command runs RunAll and renders the results.
package preflight
