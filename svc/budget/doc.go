// Package budget keeps per-category monthly budgets and alerts their owners when spending
// approaches or passes the limit.
//
// Evaluate maps spend against a limit to an AlertStatus. Service.Check persists the new
// status with a conditional update, so concurrent evaluators agree on a single winner, and
// only the winner of an upward transition (none to near, near to exceeded, none to
// exceeded) sends an alert. Alert delivery is best effort: failures are logged and the
// stored status is kept.
package budget
