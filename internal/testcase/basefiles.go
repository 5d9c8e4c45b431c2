package testcase

// Base source templates written at problem initialization.

const MainCPP = `#include <bits/stdc++.h>

using namespace std;
typedef long long ll;

int main() {
    ios::sync_with_stdio(0);
    cin.tie(0);

    return 0;
}
`

// CheckerCPP is the custom checker skeleton. The checker reads the testcase
// input, the actual output and optionally the expected output, separated by
// "---" delimiter lines, and prints nothing to accept or a nonempty reason
// to reject.
const CheckerCPP = `#include <bits/stdc++.h>

using namespace std;
typedef long long ll;

/*
CHECKER:
* input: input, actual output, and expected output (optional), joined with "---"
* verdict: call checker_ac() if the actual output is accepted
           or checker_wa() with the wrong answer reason otherwise
* output: do not output anything else
*/

void checker_ac() {
    exit(0);
}

void checker_wa(string message) {
    cout << (message != "" ? message : "checker returned wa");
    exit(0);
}

void assert_io_delim() {
    string delim;
    cin >> delim;
    assert(delim == "---");
}

int main() {
    ios::sync_with_stdio(0);
    cin.tie(0);
    // read input

    assert_io_delim();
    // read actual output

    assert_io_delim();
    // read expected output (optional)

    return 1;  // checker_ac() should be called before this line
}
`
