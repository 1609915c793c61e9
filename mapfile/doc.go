/*

Process of comparison

Map File Text ->
	grammar ->
Classified Lines (ast) ->
	walk sections ->
Memory Map Entries ->
	symtab.Builder ->
Symbol Table (symtab.Table) ->
	Table.Sizes ->
Size Map (symtab.SizeMap) ->
	diff.Compare (with the second map) ->
Change Report (diff.Row) ->
	report.Write ->
Text

*/
package mapfile
