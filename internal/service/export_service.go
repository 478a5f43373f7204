package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ExportScoresCSV 将得分历史写出为 CSV，列顺序与维度顺序一致
// 对应面板「数据」页的下载功能
func ExportScoresCSV(w io.Writer, records []ScoreRecord) error {
	writer := csv.NewWriter(w)

	header := append([]string{"date", "score"}, Dimensions...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, record := range records {
		row := make([]string, 0, len(header))
		row = append(row, record.Date, strconv.FormatFloat(record.Score, 'f', 2, 64))
		for _, name := range Dimensions {
			row = append(row, strconv.FormatFloat(record.Contributions[name], 'f', 2, 64))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
