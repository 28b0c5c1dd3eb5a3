package model

// rowLabels names each row top to bottom. The five rows above the starting
// pieces count down to the goal; the filled rows count up from 1.
var rowLabels = [Rows]string{
	"5", "4", "3", "2", "1",
	"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12", "13", "14", "15",
}

// RowLabel returns the display label for a board row, or "" off the board
func RowLabel(row int) string {
	if row < 0 || row >= Rows {
		return ""
	}
	return rowLabels[row]
}

// RowLabels returns the label of every row, top to bottom
func RowLabels() []string {
	return append([]string(nil), rowLabels[:]...)
}
