// Alga
// Copyright (C) 2013-2019+ James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package pgraph

import (
	"fmt"
	"strconv"
)

// Graphviz outputs the graph in graphviz format. The output is sorted so that
// it can be compared against a golden copy.
// https://en.wikipedia.org/wiki/DOT_%28graph_description_language%29
func (g *Graph) Graphviz() (out string) {
	//digraph g {
	//	label="hello world";
	//	node [shape=box];
	//	"A" [label="A"];
	//	"B" [label="B"];
	//	"A" -> "B" [label="f"];
	//}
	out += fmt.Sprintf("digraph %s {\n", strconv.Quote(g.GetName()))
	out += fmt.Sprintf("\tlabel=%s;\n", strconv.Quote(g.GetName()))
	out += "\tnode [shape=box];\n"
	str := ""
	for _, i := range g.VerticesSorted() {
		v1 := strconv.Quote(i.String()) // 1st vertex
		out += fmt.Sprintf("\t%s [label=%s];\n", v1, v1)
		for _, j := range g.OutgoingGraphVertices(i) {
			v2 := strconv.Quote(j.String()) // 2nd vertex
			e := strconv.Quote(g.adjacency[i][j].String())
			// use str for clearer output ordering
			str += fmt.Sprintf("\t%s -> %s [label=%s];\n", v1, v2, e)
		}
	}
	out += str
	out += "}\n"
	return
}
