package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
)

var (
	csvFile string
)

// Reads a grid refinement study of the heat solver and prints the observed
// order of convergence between successive grids. Each row of the CSV is:
//
//	Title, IntegrationPoints, Elements, H, Error
//
// where H is the element size and Error any norm of the difference to a
// reference solution. The first row is a header.
func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a convergence study")
	flag.Parse()
	csvFile = *csvFilePtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	f, err := os.Open(csvFile)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	studies, err := readCSV(bufio.NewReader(f))
	if err != nil {
		panic(err)
	}
	keys := make([]string, 0, len(studies))
	for k := range studies {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		cs := studies[key]
		fmt.Printf("Title = %s, Integration Points = %d\n", cs.title, cs.points)
		orders := cs.ObservedOrders()
		for i := range cs.h {
			if i == 0 {
				fmt.Printf("%8d, %12.5e, %12.5e\n", cs.elements[i], cs.h[i], cs.err[i])
				continue
			}
			fmt.Printf("%8d, %12.5e, %12.5e, order = %6.3f\n", cs.elements[i], cs.h[i], cs.err[i], orders[i-1])
		}
	}
}

type ConvergenceStudy struct {
	title    string
	points   int
	elements []int
	h, err   []float64
}

func NewConvergenceStudy(title string, points int) *ConvergenceStudy {
	return &ConvergenceStudy{
		title:  title,
		points: points,
	}
}

func (cs *ConvergenceStudy) Add(elements int, h, err float64) {
	cs.elements = append(cs.elements, elements)
	cs.h = append(cs.h, h)
	cs.err = append(cs.err, err)
}

// ObservedOrders returns log(e_i/e_i+1) / log(h_i/h_i+1) for each pair of
// successive grids, NaN where either ratio is undefined
func (cs *ConvergenceStudy) ObservedOrders() (orders []float64) {
	for i := 1; i < len(cs.h); i++ {
		eRatio, hRatio := cs.err[i-1]/cs.err[i], cs.h[i-1]/cs.h[i]
		if eRatio <= 0 || hRatio <= 0 || hRatio == 1 || math.IsInf(eRatio, 0) {
			orders = append(orders, math.NaN())
			continue
		}
		orders = append(orders, math.Log(eRatio)/math.Log(hRatio))
	}
	return
}

func readCSV(r io.Reader) (studies map[string]*ConvergenceStudy, err error) {
	var (
		records [][]string
		ok      bool
		cs      *ConvergenceStudy
	)
	studies = make(map[string]*ConvergenceStudy)
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	if records, err = cr.ReadAll(); err != nil {
		return nil, err
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) < 5 {
			return nil, fmt.Errorf("line %d: expected 5 columns, have %d", i+1, len(rec))
		}
		var (
			points, elements int
			h, e             float64
		)
		title, ptxt := rec[0], rec[1]
		if points, err = strconv.Atoi(ptxt); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if elements, err = strconv.Atoi(rec[2]); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if h, err = strconv.ParseFloat(rec[3], 64); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if e, err = strconv.ParseFloat(rec[4], 64); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		combTitle := title + ptxt
		if cs, ok = studies[combTitle]; !ok {
			cs = NewConvergenceStudy(title, points)
			studies[combTitle] = cs
		}
		cs.Add(elements, h, e)
	}
	return
}
