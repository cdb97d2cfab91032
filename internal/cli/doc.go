// Package cli implements the dorc entry point and its menu tree.
//
// There are no subcommands. The root command loads the config directory,
// starts logging and hands the terminal to App.Run, which shows the main
// menu until the user picks Quit:
//
//	Project        switch project, drush status, composer
//	Git            status, pull, push, checkout, log
//	Drush          target selection and site tasks
//	Database       restore, export, sync, drop
//	Search         Search API status, index, clear
//	Cloud          az login, AKS clusters and credentials
//	Orchestration  kubectl pods, logs, shells, contexts, ssh
//	History        view, replay, clear
//	Favorites      run, edit, reload
//	Settings       configuration, reports, log level, tool check
//
// # Screens
//
// Every screen is an App method built on menu.Loop. Handlers return errors
// instead of printing them; App.onError prints the error and waits for a
// key before the menu is redrawn, so a failed command only ever returns
// the user to the menu it was started from.
//
// # Targets
//
// Drush commands always run against the session's target. The Drush,
// Database and Search screens ask for one on first use and drop it when
// the user leaves them.
package cli
