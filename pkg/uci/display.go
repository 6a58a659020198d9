package uci

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/spoturno/hpc/pkg/common"
)

var (
	whitePieceColor = color.New(color.FgHiWhite, color.Bold)
	blackPieceColor = color.New(color.FgHiBlue, color.Bold)
	frameColor      = color.New(color.FgHiBlack)
)

// formatBoard renders the position as a rank/file grid for the "d" command,
// white pieces bright, black pieces blue.
func formatBoard(p *common.Position) string {
	var sb strings.Builder

	var divider = frameColor.Sprint("  +---+---+---+---+---+---+---+---+")
	sb.WriteString(divider)
	sb.WriteString("\n")
	for rank := common.Rank8; rank >= common.Rank1; rank-- {
		fmt.Fprintf(&sb, "%d ", rank+1)
		sb.WriteString(frameColor.Sprint("|"))
		for file := common.FileA; file <= common.FileH; file++ {
			var sq = common.MakeSquare(file, rank)
			var piece = p.WhatPiece(sq)
			var cell = "   "
			if piece != common.Empty {
				var white = (p.White & common.SquareMask[sq]) != 0
				var glyph = string(" PNBRQK"[piece])
				if white {
					cell = whitePieceColor.Sprintf(" %s ", glyph)
				} else {
					cell = blackPieceColor.Sprintf(" %s ", strings.ToLower(glyph))
				}
			}
			sb.WriteString(cell)
			sb.WriteString(frameColor.Sprint("|"))
		}
		sb.WriteString("\n")
		sb.WriteString(divider)
		sb.WriteString("\n")
	}
	sb.WriteString("    a   b   c   d   e   f   g   h\n")
	fmt.Fprintf(&sb, "fen: %v\n", p.String())
	fmt.Fprintf(&sb, "key: %016X\n", p.Key)
	return sb.String()
}
