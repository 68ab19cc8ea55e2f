// Package commands implements toolboardctl, the command line companion of the
// dashboard. It talks to the same controller and reads the same diskv layout state.
package commands
