// Package testutil provides test doubles shared across packages.
//
// Key components:
//   - FakeExecutor: scripted runner.Executor that records invocations, so
//     tests can assert how many processes would have started
//   - MockPaths: paths.Paths rooted in a temp dir
//   - fixtures: captured chezmoi output for status, managed, diff, data,
//     doctor and version
package testutil
