/*

Process of compilation

Program Text ->
	parse ->
Abstract Syntax Tree (ast) ->
	verify syntax-tree ->
	lower, optimize ->
Middle Intermediate Representation (mir) ->
	verify optimized-mir ->
	verify complete-abi, resolved-symbols ->
	encode ->
Artifact (binary mir) ->
	codegen, link ->
Binary Executable

Artifact ->
	decode ->
Middle Intermediate Representation (mir) ->
	verify ->
	fingerprint ->
Bootstrap comparison

*/
package compiler
