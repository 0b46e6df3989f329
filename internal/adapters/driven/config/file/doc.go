// Package file implements the configuration, prompt and knowledge-scope
// stores on plain files under the Norma config directory: settings in
// TOML, the scope in JSON and prompts as editable text templates.
package file
