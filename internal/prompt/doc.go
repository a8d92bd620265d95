// Package prompt presents modal notifications to the user and collects their answer:
// which of the notification's options they chose, plus the values of any input fields
// the notification asks for.
//
// Notifications are identified by template ID. Each template carries a message (a
// text/template, rendered with caller-supplied substitutions), a list of option labels
// in which index 0 is always the affirmative choice, and an optional list of input
// fields that are only collected when that affirmative option is chosen.
package prompt
