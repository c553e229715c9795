package roll

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	maxDice  = 100
	maxSides = 1000
	// maxValue bounds every literal and every intermediate result.
	maxValue = 1_000_000_000
)

var (
	tokenRegex = regexp.MustCompile(`(?i)\d*d\d+|\d+|[+\-*/]|\S`)
	diceRegex  = regexp.MustCompile(`(?i)^(\d*)d(\d+)$`)

	ErrEmptyFormula   = errors.New("empty formula")
	ErrDivisionByZero = errors.New("division by zero")
	ErrTooLarge       = fmt.Errorf("result is out of range, max %d", maxValue)
)

// Roller returns a number in [1, sides].
type Roller func(sides int) int

type term struct {
	value int
	desc  string
	op    string
}

// Result is an evaluated formula.
type Result struct {
	Formula     string
	Calculation string
	Total       int
}

// Evaluate rolls and computes formula, e.g. "2d6+1d4*2-3". Multiplication and
// division bind tighter than addition and subtraction; division truncates.
func Evaluate(formula string, roll Roller) (Result, error) {
	formula = strings.Join(strings.Fields(formula), "")
	tokens := tokenRegex.FindAllString(formula, -1)
	if len(tokens) == 0 {
		return Result{}, ErrEmptyFormula
	}

	var terms []term
	op := "+"
	expectOperand := true
	for _, tok := range tokens {
		if strings.Contains("+-*/", tok) && len(tok) == 1 {
			if expectOperand {
				return Result{}, fmt.Errorf("operator %q without left operand", tok)
			}
			op = tok
			expectOperand = true
			continue
		}
		if !expectOperand {
			return Result{}, fmt.Errorf("missing operator before %q", tok)
		}
		value, desc, err := evaluateToken(tok, roll)
		if err != nil {
			return Result{}, err
		}
		terms = append(terms, term{value: value, desc: desc, op: op})
		expectOperand = false
	}
	if expectOperand {
		return Result{}, fmt.Errorf("formula ends with operator %q", op)
	}

	merged := make([]term, 0, len(terms))
	for _, t := range terms {
		if t.op != "*" && t.op != "/" {
			merged = append(merged, t)
			continue
		}
		prev := &merged[len(merged)-1]
		if t.op == "*" {
			if t.value != 0 && abs(prev.value) > maxValue/abs(t.value) {
				return Result{}, ErrTooLarge
			}
			prev.value *= t.value
		} else {
			if t.value == 0 {
				return Result{}, ErrDivisionByZero
			}
			prev.value /= t.value
		}
		prev.desc = fmt.Sprintf("%s %s %s", prev.desc, t.op, t.desc)
	}

	res := Result{Formula: formula}
	var calc strings.Builder
	for i, t := range merged {
		if i > 0 {
			fmt.Fprintf(&calc, " %s ", t.op)
		}
		calc.WriteString(t.desc)
		if t.op == "-" {
			res.Total -= t.value
		} else {
			res.Total += t.value
		}
		if abs(res.Total) > maxValue {
			return Result{}, ErrTooLarge
		}
	}
	res.Calculation = calc.String()
	return res, nil
}

func evaluateToken(tok string, roll Roller) (int, string, error) {
	if m := diceRegex.FindStringSubmatch(tok); m != nil {
		count := 1
		if m[1] != "" {
			count, _ = strconv.Atoi(m[1])
		}
		sides, _ := strconv.Atoi(m[2])
		if count < 1 || sides < 2 {
			return 0, "", fmt.Errorf("invalid dice %q", tok)
		}
		if count > maxDice || sides > maxSides {
			return 0, "", fmt.Errorf("%q is too big, max %d dice with %d sides", tok, maxDice, maxSides)
		}
		sum := 0
		rolls := make([]string, count)
		for i := range rolls {
			r := roll(sides)
			sum += r
			rolls[i] = strconv.Itoa(r)
		}
		return sum, fmt.Sprintf("`%s` [%s]", tok, strings.Join(rolls, ", ")), nil
	}
	n, err := strconv.Atoi(tok)
	if errors.Is(err, strconv.ErrRange) || n > maxValue {
		return 0, "", fmt.Errorf("%q: %w", tok, ErrTooLarge)
	}
	if err != nil {
		return 0, "", fmt.Errorf("unexpected %q", tok)
	}
	return n, strconv.Itoa(n), nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
